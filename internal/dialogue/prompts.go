package dialogue

import (
	"fmt"
	"strings"

	"github.com/ent0n29/samvad/internal/taxonomy"
)

// prompt is a message in every supported language.
type prompt map[taxonomy.Language]string

func (p prompt) in(lang taxonomy.Language) string {
	if m, ok := p[lang]; ok {
		return m
	}
	return p[taxonomy.English]
}

var (
	promptWelcome = prompt{
		taxonomy.English: "Namaste. Welcome to Municipal Complaint Helpline. Please describe your complaint.",
		taxonomy.Hindi:   "Namaste. Nagar Nigam Shikayat Helpline mein aapka swagat hai. Kripya apni shikayat batayein.",
	}
	promptIssueNoted = prompt{
		taxonomy.English: "Your issue has been noted. Please provide the location address.",
		taxonomy.Hindi:   "Aapki samasya note ki gayi. Kripya pata batayein jahaan samasya hai.",
	}
	promptAskLocation = prompt{
		taxonomy.English: "Where is this issue located? Please provide the area name and address.",
		taxonomy.Hindi:   "Yeh samasya kahan hai? Kripya area ka naam aur pata batayein.",
	}
	promptAskLandmark = prompt{
		taxonomy.English: "Any nearby landmark? This helps us locate the issue faster.",
		taxonomy.Hindi:   "Koi najdeeki landmark? Isse hum jaldi madad kar sakte hain.",
	}
	promptAskPhone = prompt{
		taxonomy.English: "Please provide your mobile number for follow-up.",
		taxonomy.Hindi:   "Kripya apna mobile number batayein follow-up ke liye.",
	}
	promptInvalidPhone = prompt{
		taxonomy.English: "Please provide a valid 10-digit mobile number.",
		taxonomy.Hindi:   "Kripya 10 ank ka sahi mobile number batayein.",
	}
	promptCancelled = prompt{
		taxonomy.English: "Cancelled. Please describe your complaint again.",
		taxonomy.Hindi:   "Radd kiya gaya. Kripya dubara apni shikayat batayein.",
	}
	promptConfirmUnclear = prompt{
		taxonomy.English: "Please say 'yes' to confirm or 'no' to cancel.",
		taxonomy.Hindi:   "Kripya 'haan' bolein confirm ke liye ya 'na' cancel ke liye.",
	}
	promptAlreadyRegistered = prompt{
		taxonomy.English: "Your complaint is already registered.",
		taxonomy.Hindi:   "Aapki shikayat pehle se darj hai.",
	}
	promptDescribe = prompt{
		taxonomy.English: "Please describe your complaint.",
		taxonomy.Hindi:   "Kripya apni shikayat batayein.",
	}
)

// Welcome returns the greeting played when a call starts.
func Welcome(lang taxonomy.Language) string {
	return promptWelcome.in(lang)
}

// Welcomes returns the greeting in every supported language.
func Welcomes() map[taxonomy.Language]string {
	out := make(map[taxonomy.Language]string, len(promptWelcome))
	for k, v := range promptWelcome {
		out[k] = v
	}
	return out
}

func confirmationPrompt(d CollectedData) prompt {
	where := d.LocationArea
	if d.Landmark != "" {
		where += ", near " + d.Landmark
	}
	return prompt{
		taxonomy.English: fmt.Sprintf("Confirm: %s complaint at %s. Contact: %s. Say 'yes' to confirm or 'no' to cancel.",
			d.Category, where, d.Phone),
		taxonomy.Hindi: fmt.Sprintf("Prishti karein: %s shikayat %s par. Sampark: %s. 'Haan' bolein confirm ke liye, 'Na' cancel ke liye.",
			d.Category, where, d.Phone),
	}
}

func registeredPrompt(id string) prompt {
	return prompt{
		taxonomy.English: fmt.Sprintf("Your complaint has been registered. Complaint ID: %s. Please save this ID to track status. Thank you.", id),
		taxonomy.Hindi:   fmt.Sprintf("Aapki shikayat darj ho gayi hai. Shikayat ID: %s. Kripya yeh ID surakshit rakhein status ke liye. Dhanyavaad.", id),
	}
}

type answer int

const (
	answerUnclear answer = iota
	answerYes
	answerNo
)

var (
	affirmativeWords = normalizeAll("yes", "haan", "ji", "correct", "sahi", "theek", "confirm", "okay", "ok", "हाँ", "हां", "जी", "ठीक", "सही")
	negativeWords    = normalizeAll("no", "nahi", "nahin", "galat", "cancel", "wrong", "नहीं", "ना", "गलत")
)

func normalizeAll(words ...string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = taxonomy.Normalize(w)
	}
	return out
}

// classifyAnswer is a case-insensitive substring match. The affirmative set
// is checked first, so "yes, no problem" confirms.
func classifyAnswer(text string) answer {
	in := taxonomy.Normalize(text)
	if in == "" {
		return answerUnclear
	}
	if containsAny(in, affirmativeWords) {
		return answerYes
	}
	if containsAny(in, negativeWords) {
		return answerNo
	}
	return answerUnclear
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
