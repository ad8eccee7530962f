// Package i18n holds the localized user-facing message table. Only the
// strings the API surfaces directly are kept here; everything cosmetic
// lives in the frontend.
package i18n

import "strings"

type Language string

const (
	LangEN Language = "en"
	LangTR Language = "tr"
)

// Normalize maps a raw language tag (query param or Accept-Language
// prefix) to a supported Language, defaulting to English.
func Normalize(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_,;"); i > 0 {
		tag = tag[:i]
	}
	if Language(tag) == LangTR {
		return LangTR
	}
	return LangEN
}

var messages = map[string]map[Language]string{
	"invalid_link": {
		LangEN: "Invalid reference number or already used.",
		LangTR: "Geçersiz referans numarası veya zaten kullanılmış.",
	},
	"type_mismatch": {
		LangEN: "This reference number is not valid for the selected reading type.",
		LangTR: "Bu referans numarası seçtiğiniz fal türü için geçerli değildir.",
	},
	"enter_reference": {
		LangEN: "Please enter your reference number.",
		LangTR: "Lütfen referans numaranızı girin.",
	},
	"already_registered": {
		LangEN: "This email address is already registered.",
		LangTR: "Bu e-posta adresi zaten kayıtlı.",
	},
	"invalid_user_info": {
		LangEN: "Please check the submitted information.",
		LangTR: "Lütfen girdiğiniz bilgileri kontrol edin.",
	},
	"question_required": {
		LangEN: "Please enter a question to guide your reading.",
		LangTR: "Lütfen falınıza yön verecek bir soru girin.",
	},
	"generation_failed": {
		LangEN: "Failed to generate your reading. Please try again.",
		LangTR: "Falınız oluşturulamadı. Lütfen tekrar deneyin.",
	},
	"save_failed": {
		LangEN: "Your reading was generated but could not be saved for review.",
		LangTR: "Falınız oluşturuldu ancak inceleme için kaydedilemedi.",
	},
	"session_not_found": {
		LangEN: "Your session has expired. Please start again.",
		LangTR: "Oturumunuzun süresi doldu. Lütfen yeniden başlayın.",
	},
	"invalid_request": {
		LangEN: "Invalid request.",
		LangTR: "Geçersiz istek.",
	},
}

// Message returns the localized string for an error code. Unknown codes
// fall back to the code itself so a missing entry is visible, not silent.
func Message(lang Language, code string) string {
	if byLang, ok := messages[code]; ok {
		if msg, ok := byLang[lang]; ok {
			return msg
		}
		return byLang[LangEN]
	}
	return code
}
