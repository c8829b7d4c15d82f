package lang

import "strings"

// Pack bundles the language-dependent vocabulary used by the interview
// engine: cue words for classifying questions, the complaint vocabulary for
// spotting newly volunteered symptoms, and the patterns the question
// sanitizer needs to detect compound questions.
type Pack struct {
	Code string

	// Question-text cues, matched case-insensitively as substrings.
	SeverityCues []string
	DurationCues []string
	LocationCues []string

	// Conjunctions that join a second clause onto a question, paired with
	// the words that typically open that second clause.
	Conjunctions      []string
	SecondClauseWords []string

	// Interrogative words opening a wh-clause.
	WHWords []string

	// Complaint vocabulary: canonical symptom name -> surface terms.
	Vocabulary []Keyword

	// Shown when the oracle cannot produce a question for a turn.
	FallbackQuestion string
}

// Keyword maps surface terms in free text to a canonical symptom name.
type Keyword struct {
	Canonical string
	Terms     []string
}

var english = Pack{
	Code:         "en",
	SeverityCues: []string{"severity", "scale", "1-10", "1 to 10", "out of 10"},
	DurationCues: []string{"how long", "duration", "since when"},
	LocationCues: []string{"where", "location", "which part"},
	Conjunctions: []string{"and", "or"},
	SecondClauseWords: []string{
		"do", "does", "did", "is", "are", "was", "were", "have", "has",
		"can", "could", "would", "what", "when", "where", "how", "why",
	},
	WHWords: []string{"what", "when", "where", "why", "how", "which", "who"},
	Vocabulary: []Keyword{
		{Canonical: "headache", Terms: []string{"headache", "head ache", "migraine"}},
		{Canonical: "fever", Terms: []string{"fever", "temperature", "feverish"}},
		{Canonical: "cough", Terms: []string{"cough", "coughing"}},
		{Canonical: "chest_pain", Terms: []string{"chest pain", "chest ache", "pain in my chest"}},
		{Canonical: "shortness_of_breath", Terms: []string{"shortness of breath", "short of breath", "breathless", "can't breathe"}},
		{Canonical: "abdominal_pain", Terms: []string{"abdominal pain", "stomach ache", "stomach pain", "belly pain"}},
		{Canonical: "nausea", Terms: []string{"nausea", "nauseous", "queasy"}},
		{Canonical: "vomiting", Terms: []string{"vomit", "vomiting", "throwing up"}},
		{Canonical: "dizziness", Terms: []string{"dizzy", "dizziness", "lightheaded"}},
		{Canonical: "fatigue", Terms: []string{"fatigue", "tired", "exhausted"}},
		{Canonical: "sore_throat", Terms: []string{"sore throat", "throat pain"}},
		{Canonical: "rash", Terms: []string{"rash", "skin rash", "hives"}},
		{Canonical: "diarrhea", Terms: []string{"diarrhea", "loose stool"}},
		{Canonical: "back_pain", Terms: []string{"back pain", "backache"}},
		{Canonical: "joint_pain", Terms: []string{"joint pain", "joints hurt"}},
		{Canonical: "swelling", Terms: []string{"swelling", "swollen"}},
		{Canonical: "palpitations", Terms: []string{"palpitations", "heart racing", "racing heart"}},
	},
	FallbackQuestion: "Can you tell me more about your symptoms?",
}

var russian = Pack{
	Code:         "ru",
	SeverityCues: []string{"по шкале", "от 1 до 10", "насколько сильн", "оцените"},
	DurationCues: []string{"как долго", "давно ли", "сколько времени"},
	LocationCues: []string{"где", "в каком месте", "локализ"},
	Conjunctions: []string{"и", "или", "а также"},
	SecondClauseWords: []string{
		"есть", "был", "была", "было", "бывает", "что", "когда", "где", "как", "почему",
	},
	WHWords: []string{"что", "когда", "где", "как", "почему", "какой"},
	Vocabulary: []Keyword{
		{Canonical: "headache", Terms: []string{"головная боль", "болит голова", "мигрень"}},
		{Canonical: "fever", Terms: []string{"температура", "жар", "лихорадка"}},
		{Canonical: "cough", Terms: []string{"кашель", "кашляю"}},
		{Canonical: "chest_pain", Terms: []string{"боль в груди", "болит грудь"}},
		{Canonical: "shortness_of_breath", Terms: []string{"одышка", "трудно дышать"}},
		{Canonical: "abdominal_pain", Terms: []string{"боль в животе", "болит живот"}},
		{Canonical: "nausea", Terms: []string{"тошнота", "тошнит"}},
		{Canonical: "dizziness", Terms: []string{"головокружение", "кружится голова"}},
		{Canonical: "fatigue", Terms: []string{"усталость", "слабость"}},
		{Canonical: "rash", Terms: []string{"сыпь"}},
	},
	FallbackQuestion: "Расскажите, пожалуйста, подробнее о ваших симптомах?",
}

var packs = map[string]Pack{
	"en": english,
	"ru": russian,
}

// Get returns the pack for a language code, falling back to English for
// unknown codes. The code may carry a region suffix ("en-US").
func Get(code string) Pack {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if p, ok := packs[code]; ok {
		return p
	}
	return english
}

// Match scans text for the first vocabulary hit, in declaration order.
// Returns the canonical symptom name.
func (p Pack) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range p.Vocabulary {
		for _, term := range kw.Terms {
			if strings.Contains(lower, term) {
				return kw.Canonical, true
			}
		}
	}
	return "", false
}
