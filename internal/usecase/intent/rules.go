package intent

// Canned replies.
const (
	GreetingReply = "Hello! I'm your AI jewelry assistant. I can help you find necklaces, rings, " +
		"earrings, and more. What are you looking for today?"

	HelpReply = "I can help you find jewelry based on your preferences. Try asking for " +
		"'gold earrings for a wedding' or 'diamond necklace under 50,000'."

	ThanksReply    = "You're welcome! Let me know if you'd like to see more options."
	HowAreYouReply = "I'm doing great, thanks for asking! I'm ready to help you find the perfect piece of jewelry."
	IdentityReply  = "I am an intelligent assistant designed to help you explore our exclusive jewelry collection."
	HoursReply     = "We are open Monday to Saturday from 10 AM to 8 PM. Our online store is open 24/7."
	LocationReply  = "We are located at 123 Jewelry Lane, Mumbai. You can also find us online at www.aijewelry.com."
	ReturnsReply   = "We offer a 30-day no-questions-asked return policy on all unworn items with original tags."

	ContactReply = "You are speaking with our AI representative right now. For human support, " +
		"please email support@aijewelry.com."

	PraiseReply    = "I'm glad you like it! Our collection is truly special."
	FarewellReply  = "Goodbye! Have a wonderful day."
	InsultReply    = "I'm still learning and doing my best to help you. Let's try finding some jewelry instead."
	AffectionReply = "That's very kind of you! I love helping you find beautiful things."
)

// DefaultRules returns the built-in rule table. Order is significant.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "greeting",
			Match: AnyOf(
				AnyToken("hi", "hello", "hey", "greetings", "hola", "namaste"),
				GreetingStem("hi", 4),
				GreetingStem("hey", 5),
			),
			Reply: GreetingReply,
		},
		{Name: "help", Match: AnyOf(Contains("help"), Phrase("what can you do")), Reply: HelpReply},
		{Name: "thanks", Match: AnyOf(Contains("thank"), AnyToken("thanks")), Reply: ThanksReply},
		{Name: "how_are_you", Match: Phrase("how are you"), Reply: HowAreYouReply},
		{Name: "identity", Match: Phrase("who are you", "what are you"), Reply: IdentityReply},
		{Name: "hours", Match: Contains("time", "hour", "open"), Reply: HoursReply},
		{Name: "location", Match: Contains("location", "address", "where"), Reply: LocationReply},
		{Name: "returns", Match: Contains("return", "policy", "refund"), Reply: ReturnsReply},
		{Name: "contact", Match: Contains("call", "phone", "contact"), Reply: ContactReply},
		{Name: "praise", Match: AnyToken("cool", "nice", "wow", "amazing"), Reply: PraiseReply},
		{Name: "farewell", Match: AnyToken("bye", "goodbye"), Reply: FarewellReply},
		{Name: "insult", Match: AnyToken("stupid", "dumb", "idiot"), Reply: InsultReply},
		{Name: "affection", Match: Phrase("love you"), Reply: AffectionReply},
	}
}
