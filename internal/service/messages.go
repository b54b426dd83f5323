package service

import "github.com/shopsetu/checklist/internal/model"

// Locale-aware user-facing messages. Marathi is the default when the
// submitted language is absent or unknown, matching the audience of the
// checklist forms.
const (
	msgMissingUserFields  = "missing_user_fields"
	msgMissingFormFields  = "missing_form_fields"
	msgNoResponses        = "no_responses"
	msgInvalidLanguage    = "invalid_language"
	msgNotAnswered        = "not_answered"
	msgSubmitSuccess      = "submit_success"
	msgSubmitError        = "submit_error"
	msgFetchError         = "fetch_error"
	msgUpdateSuccess      = "update_success"
	msgDeleteSuccess      = "delete_success"
	msgUserDeleteSuccess  = "user_delete_success"
	msgResponseNotFound   = "response_not_found"
	msgUserNotFound       = "user_not_found"
)

var localizedMessages = map[string]map[string]string{
	model.LanguageEnglish: {
		msgMissingUserFields: "Required user fields missing: name, mobile and branch are required.",
		msgMissingFormFields: "Required fields missing: formId and language are required.",
		msgNoResponses:       "No form responses provided.",
		msgInvalidLanguage:   "Invalid language. Must be one of: en, mr.",
		msgNotAnswered:       "Not answered",
		msgSubmitSuccess:     "Form submitted successfully",
		msgSubmitError:       "Error submitting form",
		msgFetchError:        "Error fetching responses",
		msgUpdateSuccess:     "Response updated successfully",
		msgDeleteSuccess:     "Response deleted successfully",
		msgUserDeleteSuccess: "User and associated responses deleted successfully",
		msgResponseNotFound:  "Response not found",
		msgUserNotFound:      "User not found",
	},
	model.LanguageMarathi: {
		msgMissingUserFields: "अधिकृत वापरकर्ता फील्ड्स गहाळ: नाव, मोबाईल आणि शाखा आवश्यक आहे.",
		msgMissingFormFields: "अधिकृत फील्ड्स गहाळ: formId आणि language आवश्यक आहे.",
		msgNoResponses:       "कोणत्याही फॉर्म प्रतिसाद उपलब्ध नाहीत.",
		msgInvalidLanguage:   "अवैध भाषा. en किंवा mr असणे आवश्यक आहे.",
		msgNotAnswered:       "उत्तर दिले नाही",
		msgSubmitSuccess:     "फॉर्म यशस्वीरीत्या सबमिट झाला",
		msgSubmitError:       "फॉर्म सबमिट करताना त्रुटी",
		msgFetchError:        "प्रतिसाद आणताना त्रुटी",
		msgUpdateSuccess:     "प्रतिसाद अद्यतनित झाला",
		msgDeleteSuccess:     "प्रतिसाद हटवला गेला",
		msgUserDeleteSuccess: "वापरकर्ता आणि संबंधित प्रतिसाद हटवले गेले",
		msgResponseNotFound:  "प्रतिसाद सापडला नाही",
		msgUserNotFound:      "वापरकर्ता सापडला नाही",
	},
}

// SubmitSuccessMessage is the locale-aware confirmation for a saved
// submission, exposed for the HTTP layer.
func SubmitSuccessMessage(lang string) string {
	return localize(lang, msgSubmitSuccess)
}

// localize resolves key for lang, defaulting to Marathi for anything that is
// not explicitly English.
func localize(lang, key string) string {
	table := localizedMessages[model.LanguageMarathi]
	if lang == model.LanguageEnglish {
		table = localizedMessages[model.LanguageEnglish]
	}
	return table[key]
}
