package webhookgrp

import (
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"
)

// inbound is the form the messaging provider posts for every message.
type inbound struct {
	From             string `json:"From"`
	Body             string `json:"Body"`
	NumMedia         string `json:"NumMedia" validate:"omitempty,number"`
	MediaURL         string `json:"MediaUrl0" validate:"omitempty,url"`
	MediaContentType string `json:"MediaContentType0"`
	MessageSid       string `json:"MessageSid" validate:"omitempty,alphanum,max=64"`
}

// DecodeForm implements the web.FormDecoder interface.
func (in *inbound) DecodeForm(form url.Values) error {
	in.From = "Unknown"
	if form.Has("From") {
		in.From = form.Get("From")
	}

	in.Body = strings.TrimSpace(form.Get("Body"))
	in.NumMedia = form.Get("NumMedia")
	in.MediaURL = form.Get("MediaUrl0")
	in.MediaContentType = form.Get("MediaContentType0")
	in.MessageSid = form.Get("MessageSid")

	return nil
}

// sender returns the phone number without the messaging scheme.
func (in inbound) sender() string {
	return strings.ReplaceAll(in.From, "whatsapp:", "")
}

// media returns the number of attachments on the message.
func (in inbound) media() int {
	n, err := strconv.Atoi(in.NumMedia)
	if err != nil {
		return 0
	}
	return n
}

// =============================================================================

// twiml is the reply document understood by the messaging provider.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message *message `xml:"Message,omitempty"`
}

type message struct {
	Body string `xml:",chardata"`
}
