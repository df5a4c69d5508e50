package chi

import (
	"encoding/xml"
	"strings"
)

// Spoken prompts of the telephone dialog.
const (
	callGreeting = "Hello! Thank you for calling AI Jewelry. I am your virtual assistant. How can I help you today?"
	callSilence  = "I didn't hear anything. Please try calling back later. Goodbye."
	callRetry    = "I'm sorry, I didn't catch that. Could you please repeat?"
	callFollowUp = "Is there anything else I can help you with?"
	callGoodbye  = "Thank you for calling. Have a wonderful day!"

	sayVoice      = "alice"
	gatherAction  = "/voice/process"
	gatherTimeout = 5
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type twimlPause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

type twimlGather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Timeout       int      `xml:"timeout,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
}

func say(text string) twimlSay { return twimlSay{Voice: sayVoice, Text: text} }

func gather(autoSpeechTimeout bool) twimlGather {
	g := twimlGather{Input: "speech", Action: gatherAction, Timeout: gatherTimeout}
	if autoSpeechTimeout {
		g.SpeechTimeout = "auto"
	}
	return g
}

// greetingTwiML opens a call: greet, listen, hang up on silence.
func greetingTwiML() twimlResponse {
	return twimlResponse{Verbs: []any{
		say(callGreeting),
		gather(true),
		twimlSay{Text: callSilence},
	}}
}

// retryTwiML asks the caller to repeat after an empty transcription.
func retryTwiML() twimlResponse {
	return twimlResponse{Verbs: []any{
		say(callRetry),
		gather(false),
	}}
}

// answerTwiML speaks the reply and keeps the dialog open.
func answerTwiML(text string) twimlResponse {
	return twimlResponse{Verbs: []any{
		say(text),
		twimlPause{Length: 1},
		say(callFollowUp),
		gather(true),
		twimlSay{Text: callGoodbye},
	}}
}

// marshalTwiML renders a document with the XML declaration. Text is escaped.
func marshalTwiML(doc twimlResponse) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

var emphasisReplacer = strings.NewReplacer("**", "", "*", "")

// spokenText removes markdown emphasis before text-to-speech.
func spokenText(s string) string {
	return emphasisReplacer.Replace(s)
}
