package language

import "strings"

// Language identifies one language by its ISO 639-1 code.
type Language struct {
	Code string
	Name string
}

// spellings maps every accepted spelling onto its language: the ISO 639-1
// code, the lowercase English name and the ISO 639-2 codes listed here.
var spellings = index(map[Language][]string{
	{"en", "English"}:    {"eng"},
	{"ja", "Japanese"}:   {"jpn"},
	{"es", "Spanish"}:    {"spa"},
	{"fr", "French"}:     {"fra", "fre"},
	{"de", "German"}:     {"deu", "ger"},
	{"it", "Italian"}:    {"ita"},
	{"pt", "Portuguese"}: {"por"},
	{"ko", "Korean"}:     {"kor"},
	{"zh", "Chinese"}:    {"zho", "chi"},
	{"ru", "Russian"}:    {"rus"},
	{"ar", "Arabic"}:     {"ara"},
	{"hi", "Hindi"}:      {"hin"},
	{"nl", "Dutch"}:      {"nld", "dut"},
	{"pl", "Polish"}:     {"pol"},
	{"sv", "Swedish"}:    {"swe"},
	{"da", "Danish"}:     {"dan"},
	{"no", "Norwegian"}:  {"nor"},
	{"fi", "Finnish"}:    {"fin"},
})

func index(table map[Language][]string) map[string]Language {
	out := make(map[string]Language, len(table)*4)
	for lang, codes := range table {
		out[lang.Code] = lang
		out[strings.ToLower(lang.Name)] = lang
		for _, code := range codes {
			out[code] = lang
		}
	}
	return out
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Lookup resolves a stream language tag, case-insensitively.
func Lookup(tag string) (Language, bool) {
	lang, ok := spellings[normalize(tag)]
	return lang, ok
}

// ToISO2 returns the ISO 639-1 code for tag. Unknown two-letter tags pass
// through; anything else unknown yields "".
func ToISO2(tag string) string {
	tag = normalize(tag)
	if lang, ok := spellings[tag]; ok {
		return lang.Code
	}
	if len(tag) == 2 {
		return tag
	}
	return ""
}

// DisplayName returns the English name of tag, "Unknown" for an empty tag,
// or the uppercased tag when it is not recognised.
func DisplayName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "Unknown"
	}
	if lang, ok := Lookup(tag); ok {
		return lang.Name
	}
	return strings.ToUpper(tag)
}

var tagKeys = []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}

// ExtractFromTags returns the lowercased language of a stream's tags, or ""
// when none of the usual keys carry one.
func ExtractFromTags(tags map[string]string) string {
	for _, key := range tagKeys {
		value := strings.TrimSpace(strings.ReplaceAll(tags[key], "\x00", ""))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}

// Matches reports whether tag names the language with ISO 639-1 code iso2.
func Matches(tag, iso2 string) bool {
	lang, ok := Lookup(tag)
	return ok && lang.Code == normalize(iso2)
}

// IsJapanese reports whether tag is one of ja, jpn or japanese.
func IsJapanese(tag string) bool { return Matches(tag, "ja") }

// IsEnglish reports whether tag is one of en, eng or english.
func IsEnglish(tag string) bool { return Matches(tag, "en") }
