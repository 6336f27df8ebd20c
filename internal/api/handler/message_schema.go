package handler

type sendMessageRequest struct {
	Text       string `json:"text,omitempty"`
	Image      string `json:"image,omitempty"`
	TargetLang string `json:"targetLang,omitempty"`
}
