package score

import "strings"

// Signal names double as the configuration keys for their weights.
const (
	SignalCentralAmerica = "central_america_presence"
	SignalSouthOfMexico  = "south_of_mexico_presence"
	SignalFintechKeyword = "fintech_keyword_penalty"
	SignalFemaleFounder  = "female_founder_boost"
)

// Membership lists are fixed reference constants. Making them
// configurable is a future extension; today only the weights are.
var (
	CentralAmericanCountries = []string{
		"Belize",
		"Costa Rica",
		"El Salvador",
		"Guatemala",
		"Honduras",
		"Nicaragua",
		"Panama",
	}

	SouthAmericanCountries = []string{
		"Argentina",
		"Bolivia",
		"Brazil",
		"Chile",
		"Colombia",
		"Ecuador",
		"Guyana",
		"Paraguay",
		"Peru",
		"Suriname",
		"Uruguay",
		"Venezuela",
	}

	FintechKeywords = []string{
		"fintech",
		"banking",
		"payments",
	}
)

// Signal pairs a name with its evaluator. Evaluators are pure
// functions; adding a signal means appending here, not branching
// inside an existing one.
type Signal struct {
	Name string
	Eval func(Record) bool
}

// Signals returns the evaluators in their fixed breakdown order.
func Signals() []Signal {
	return []Signal{
		{Name: SignalCentralAmerica, Eval: HasCentralAmericaPresence},
		{Name: SignalSouthOfMexico, Eval: HasSouthOfMexicoPresence},
		{Name: SignalFintechKeyword, Eval: HasFintechKeyword},
		{Name: SignalFemaleFounder, Eval: HasFemaleFounder},
	}
}

// HasCentralAmericaPresence fires when any location mentions one of
// the seven Central American countries.
func HasCentralAmericaPresence(r Record) bool {
	return anyLocationMentions(r.Locations, CentralAmericanCountries)
}

// HasSouthOfMexicoPresence fires when any location mentions a South
// American country. Independent of the Central America signal; both
// may fire for multi-location records.
func HasSouthOfMexicoPresence(r Record) bool {
	return anyLocationMentions(r.Locations, SouthAmericanCountries)
}

// HasFintechKeyword fires when the description mentions a fintech
// sector keyword. The weight is configured like any other; nothing
// here assumes it is negative.
func HasFintechKeyword(r Record) bool {
	return containsAnyFold(r.Description, FintechKeywords)
}

// HasFemaleFounder fires when any founder's gender is female.
func HasFemaleFounder(r Record) bool {
	for _, f := range r.Founders {
		if f.Gender == GenderFemale {
			return true
		}
	}
	return false
}

// containsAnyFold reports whether text contains any of the terms,
// case-insensitively. Substring containment only, no whole-word rule.
func containsAnyFold(text string, terms []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, t := range terms {
		if t == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func anyLocationMentions(locations, countries []string) bool {
	for _, loc := range locations {
		if containsAnyFold(loc, countries) {
			return true
		}
	}
	return false
}
