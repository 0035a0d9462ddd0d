// Package normalize turns messy receipt text into canonical item names
// and matches them against existing pantry inventory.
//
// Example transformations:
//
//	"GREAT VALUE 2% MILK 1GAL" -> "milk"
//	"BNLS SKNLS CHKN BRST"     -> "chicken breast"
//	"ORG BABY SPINACH 5OZ"     -> "baby spinach"
package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// brandNames are common store and product brands stripped from receipt
// items. Matched on word boundaries only, so short entries like "ee"
// never corrupt words such as "cheese".
var brandNames = []string{
	"great value", "kirkland", "signature select", "kroger", "safeway",
	"trader joes", "trader joe's", "whole foods", "365", "market pantry",
	"good gather", "simply balanced", "o organics", "open nature",
	"private selection", "simple truth", "essential everyday",
	"store brand", "generic", "house brand",
	"kraft", "heinz", "nestle", "kelloggs", "general mills", "campbells",
	"del monte", "dole", "chiquita", "tyson", "perdue", "oscar mayer",
	"land o lakes", "sargento", "tillamook", "cabot", "horizon",
	"stonyfield", "chobani", "fage", "oikos", "yoplait", "dannon",
	// brand abbreviations commonly seen on receipts
	"gv", "kk", "ss", "mp", "gg", "st", "ee",
}

// abbreviations expands receipt shorthand into full words.
var abbreviations = map[string]string{
	"chkn": "chicken", "brst": "breast", "bnls": "boneless", "sknls": "skinless",
	"org": "organic", "whl": "whole", "grnd": "ground", "frsh": "fresh",
	"frzn": "frozen", "lg": "large", "sm": "small", "med": "medium",
	"slcd": "sliced", "shrd": "shredded", "dcd": "diced",
	"ctg": "cottage", "chs": "cheese", "chse": "cheese", "crm": "cream",
	"bttr": "butter", "yog": "yogurt", "ygrt": "yogurt",
	"veg": "vegetable", "vegs": "vegetables",
	"tom": "tomato", "toms": "tomatoes", "pot": "potato", "pots": "potatoes",
	"oni": "onion", "gar": "garlic", "pep": "pepper",
	"grn": "green", "rd": "red", "wht": "white", "brn": "brown", "blk": "black",
	"sug": "sugar", "flr": "flour", "brd": "bread", "rce": "rice",
	"pst": "pasta", "sce": "sauce", "jce": "juice", "mlk": "milk",
	"eg": "egg", "egs": "eggs",
	"bf": "beef", "prk": "pork", "trky": "turkey",
	"slmn": "salmon", "tna": "tuna", "shrmp": "shrimp",
	"appl": "apple", "appls": "apples", "orng": "orange", "orngs": "oranges",
	"bana": "banana", "banas": "bananas",
	"strw": "strawberry", "strws": "strawberries",
	"blueb": "blueberry", "bluebs": "blueberries",
	"lett": "lettuce", "spin": "spinach", "broc": "broccoli",
	"caul": "cauliflower", "carr": "carrot", "carrs": "carrots",
	"cel": "celery", "cucu": "cucumber", "cucus": "cucumbers",
	"musr": "mushroom", "musrs": "mushrooms",
	"avoc": "avocado", "avocs": "avocados",
}

// noiseWords do not contribute to item identity and are dropped unless
// the caller asks to keep descriptors.
var noiseWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"organic", "natural", "fresh", "frozen", "canned", "dried",
		"raw", "cooked", "ready", "instant", "quick",
		"low", "reduced", "free", "lite", "light", "fat", "sodium", "sugar",
		"boneless", "skinless", "bone-in", "skin-on",
		"sliced", "diced", "chopped", "minced", "shredded", "grated",
		"whole", "half", "quarter",
		"premium", "select", "choice", "prime",
		"imported", "domestic", "local",
		"usda", "grade", "certified",
	} {
		noiseWords[w] = struct{}{}
	}
}

var (
	brandPattern      *regexp.Regexp
	sizePatterns      []*regexp.Regexp
	percentPattern    = regexp.MustCompile(`\b\d+%`)
	bareNumberPattern = regexp.MustCompile(`\b\d+\b`)
	nonLetterPattern  = regexp.MustCompile(`[^a-z]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

func init() {
	// Longer brands first so "great value" wins over the "gv" style
	// abbreviations inside the same alternation.
	sorted := make([]string, len(brandNames))
	copy(sorted, brandNames)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	escaped := make([]string, len(sorted))
	for i, b := range sorted {
		escaped[i] = regexp.QuoteMeta(b)
	}
	brandPattern = regexp.MustCompile(`\b(?:` + strings.Join(escaped, "|") + `)\b`)

	for _, p := range []string{
		`\b\d+(\.\d+)?\s*(oz|lb|lbs|kg|g|gal|qt|pt|ct|pk|pc|pcs|ea|ml|l|fl)\b`,
		`\b\d+\s*(pack|count|piece|pieces)\b`,
		`\b(x-?large|xlarge|xl|x-?small|xsmall|xs)\b`,
		`\b(family|value|bulk|economy)\s*(size|pack)?\b`,
	} {
		sizePatterns = append(sizePatterns, regexp.MustCompile(p))
	}
}

// Normalize converts a raw receipt item name into a canonical form
// suitable for matching. With keepDescriptors true, words like
// "organic" and "boneless" survive normalization.
//
// The transform is pure and deterministic; a name made entirely of
// brand, size and noise tokens normalizes to the empty string, which
// callers must treat as "cannot match, cannot categorize".
func Normalize(rawName string, keepDescriptors bool) string {
	if rawName == "" {
		return ""
	}

	name := strings.ToLower(strings.TrimSpace(rawName))

	name = brandPattern.ReplaceAllString(name, " ")
	for _, p := range sizePatterns {
		name = p.ReplaceAllString(name, " ")
	}
	name = percentPattern.ReplaceAllString(name, " ")
	name = bareNumberPattern.ReplaceAllString(name, " ")

	var words []string
	for _, word := range strings.Fields(name) {
		clean := nonLetterPattern.ReplaceAllString(word, "")
		if expansion, ok := abbreviations[clean]; ok {
			words = append(words, expansion)
		} else if clean != "" {
			words = append(words, clean)
		}
	}

	if !keepDescriptors {
		kept := words[:0]
		for _, w := range words {
			if _, noisy := noiseWords[w]; !noisy {
				kept = append(kept, w)
			}
		}
		words = kept
	}

	result := strings.Join(words, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(result, " "))
}

// SuggestCanonicalName derives the canonical_name for a new pantry item
// from its display name.
func SuggestCanonicalName(rawName string) string {
	return Normalize(rawName, false)
}

// Similarity scores how alike two normalized names are, from 0 to 1.
// Exact matches score 1.0; containment scores the length ratio with a
// 0.9 penalty so partial matches rank below exact ones; anything else
// falls through to a symmetric subsequence ratio.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	if a == b {
		return 1.0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter, longer := len(a), len(b)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return float64(shorter) / float64(longer) * 0.9
	}

	return sequenceRatio(a, b)
}

// sequenceRatio computes 2*LCS(a,b) / (len(a)+len(b)): 1.0 for identical
// strings, 0.0 when the strings share no characters, symmetric in its
// arguments.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}
