package analysis

// Fixed lexicons backing the heuristic analyzers. These are deliberately
// small, named tables: every scoring rule reads from here so word lists can
// be tuned without touching the scoring code.

// Stopwords are excluded from preferred-word and topical-interest rankings.
var Stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "when": true, "while": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "by": true,
	"for": true, "with": true, "about": true, "into": true, "over": true,
	"after": true, "before": true, "between": true, "through": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "am": true, "do": true, "does": true,
	"did": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "can": true, "could": true, "should": true, "shall": true,
	"may": true, "might": true, "must": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "there": true,
	"here": true, "i": true, "you": true, "he": true, "she": true, "we": true,
	"they": true, "me": true, "him": true, "her": true, "us": true,
	"them": true, "my": true, "your": true, "his": true, "our": true,
	"their": true, "mine": true, "yours": true, "hers": true, "ours": true,
	"theirs": true, "what": true, "which": true, "who": true, "whom": true,
	"whose": true, "how": true, "why": true, "where": true, "not": true,
	"no": true, "nor": true, "so": true, "too": true, "very": true,
	"just": true, "also": true, "than": true, "as": true, "from": true,
	"up": true, "down": true, "out": true, "off": true, "all": true,
	"any": true, "both": true, "each": true, "few": true, "more": true,
	"most": true, "other": true, "some": true, "such": true, "only": true,
	"own": true, "same": true, "s": true, "t": true, "don't": true,
	"it's": true, "now": true, "one": true, "get": true, "got": true,
	"like": true, "well": true, "much": true, "many": true, "even": true,
}

// SubordinateMarkers signal clause complexity inside a sentence.
var SubordinateMarkers = map[string]bool{
	"which": true, "that": true, "because": true, "although": true,
	"though": true, "while": true, "since": true, "whereas": true,
	"unless": true, "whose": true, "whom": true, "whenever": true,
	"wherever": true, "whether": true,
}

// FormalConnectives raise the formality score.
var FormalConnectives = map[string]bool{
	"furthermore": true, "therefore": true, "moreover": true,
	"consequently": true, "nevertheless": true, "nonetheless": true,
	"thus": true, "hence": true, "accordingly": true, "whereby": true,
	"notwithstanding": true, "henceforth": true, "albeit": true,
}

// InformalMarkers lower the formality score: second-person address and
// casual fillers.
var InformalMarkers = map[string]bool{
	"you": true, "your": true, "yours": true, "gonna": true, "wanna": true,
	"gotta": true, "kinda": true, "sorta": true, "stuff": true, "guys": true,
	"ok": true, "okay": true, "yeah": true, "yep": true, "nope": true,
	"cool": true, "awesome": true, "super": true, "totally": true,
}

// BeVerbs are auxiliary forms used by the passive-construction heuristic.
var BeVerbs = map[string]bool{
	"is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true,
}

// IrregularParticiples are common past participles that do not end in "ed",
// recognized after a be-verb as a passive construction.
var IrregularParticiples = map[string]bool{
	"made": true, "given": true, "taken": true, "seen": true, "done": true,
	"known": true, "shown": true, "written": true, "held": true,
	"found": true, "built": true, "kept": true, "left": true, "sent": true,
	"told": true, "thought": true, "understood": true, "chosen": true,
}

// Hedges are qualifier words counted for hedge frequency.
var Hedges = map[string]bool{
	"perhaps": true, "maybe": true, "somewhat": true, "possibly": true,
	"probably": true, "arguably": true, "likely": true, "apparently": true,
	"seemingly": true, "roughly": true, "fairly": true, "relatively": true,
	"quite": true, "rather": true, "presumably": true, "supposedly": true,
}

// HedgePhrases are multi-word hedges scanned over the lowercase word stream.
var HedgePhrases = [][]string{
	{"sort", "of"},
	{"kind", "of"},
	{"i", "think"},
	{"i", "guess"},
	{"i", "suppose"},
	{"it", "seems"},
	{"more", "or", "less"},
}

// IrregularContractions are contraction-register words without apostrophes.
var IrregularContractions = map[string]bool{
	"gonna": true, "wanna": true, "gotta": true, "gimme": true,
	"lemme": true, "dunno": true,
}

// Idioms is the fixed idiom-phrase list for idiom usage lookup.
var Idioms = [][]string{
	{"piece", "of", "cake"},
	{"hit", "the", "nail", "on", "the", "head"},
	{"under", "the", "weather"},
	{"once", "in", "a", "blue", "moon"},
	{"at", "the", "end", "of", "the", "day"},
	{"back", "to", "the", "drawing", "board"},
	{"cut", "to", "the", "chase"},
	{"on", "the", "same", "page"},
	{"in", "a", "nutshell"},
	{"food", "for", "thought"},
	{"bite", "the", "bullet"},
	{"the", "big", "picture"},
	{"long", "story", "short"},
}

// Tone lexicons. Each bucket scores by occurrence rate; ties resolve by
// TonePriority, not map iteration order.

var toneLexicons = map[Tone]map[string]bool{
	ToneAnalytical: {
		"therefore": true, "analysis": true, "data": true, "evidence": true,
		"however": true, "consider": true, "examine": true, "indicates": true,
		"suggests": true, "systematic": true, "measure": true, "result": true,
		"conclusion": true, "hypothesis": true, "objective": true,
	},
	ToneWarm: {
		"thanks": true, "grateful": true, "love": true, "happy": true,
		"wonderful": true, "together": true, "appreciate": true, "glad": true,
		"friends": true, "heart": true, "kind": true, "welcome": true,
		"lovely": true, "warm": true, "caring": true,
	},
	ToneAssertive: {
		"must": true, "definitely": true, "certainly": true, "clearly": true,
		"absolutely": true, "essential": true, "critical": true,
		"never": true, "always": true, "insist": true, "demand": true,
		"undoubtedly": true, "imperative": true,
	},
	TonePlayful: {
		"fun": true, "funny": true, "silly": true, "haha": true, "joke": true,
		"crazy": true, "wild": true, "hilarious": true, "weird": true,
		"wow": true, "blast": true, "goofy": true, "ridiculous": true,
	},
}
