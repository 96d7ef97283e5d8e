package internal

// TranslationRequest is the relay input. Languages are display names
// ("English", "Urdu"), not codes.
type TranslationRequest struct {
	Text           string `json:"text" validate:"notblank"`
	SourceLanguage string `json:"sourceLanguage" validate:"notblank"`
	TargetLanguage string `json:"targetLanguage" validate:"notblank"`
}

type TranslationResult struct {
	TranslatedText string `json:"translatedText"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
