package recipe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Extractor pulls recipes out of web pages. It works off common recipe
// markup (schema.org microdata and the class names the big recipe sites
// use) without calling out to anything beyond the page itself.
type Extractor struct {
	client *http.Client
}

// ExtractedRecipe is the raw result of scraping a page, before it is
// turned into a catalog entry.
type ExtractedRecipe struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Servings    int      `json:"servings"`
	TimeMinutes int      `json:"time_minutes"`
	SourceURL   string   `json:"source_url"`
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// ExtractURL fetches a page and extracts the recipe on it.
func (e *Extractor) ExtractURL(ctx context.Context, url string) (*ExtractedRecipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	extracted, err := Extract(resp.Body)
	if err != nil {
		return nil, err
	}
	extracted.SourceURL = url
	return extracted, nil
}

var (
	servingsPattern = regexp.MustCompile(`(?i)(?:serves|servings?|yield)[:\s]*(\d+)`)
	minutesPattern  = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes|mins|min)\b`)
	hoursPattern    = regexp.MustCompile(`(?i)(\d+)\s*(?:hours|hrs|hr|hour)\b`)
)

// Extract parses recipe markup out of an HTML document.
func Extract(body io.Reader) (*ExtractedRecipe, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Strip the parts of the page that only add noise.
	doc.Find("script, style, nav, footer, iframe, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	extracted := &ExtractedRecipe{
		Title:       extractTitle(doc),
		Ingredients: extractList(doc, ingredientSelectors),
		Steps:       extractList(doc, stepSelectors),
	}

	meta := doc.Find("body").Text()
	if m := servingsPattern.FindStringSubmatch(meta); m != nil {
		extracted.Servings, _ = strconv.Atoi(m[1])
	}
	extracted.TimeMinutes = extractMinutes(meta)

	if extracted.Title == "" || len(extracted.Ingredients) == 0 {
		return nil, fmt.Errorf("page does not look like a recipe")
	}
	return extracted, nil
}

// Recipe converts the scraped page into a catalog entry. Ingredient
// lines stay as names with quantity 1; nutrition is unknown, so the
// estimates stay zero and the default cost applies.
func (x *ExtractedRecipe) Recipe() Recipe {
	ingredients := make([]Ingredient, 0, len(x.Ingredients))
	for _, line := range x.Ingredients {
		ingredients = append(ingredients, Ingredient{Name: line, Quantity: 1, Unit: "unit"})
	}

	rec := Recipe{
		Title:       x.Title,
		Description: fmt.Sprintf("Imported from %s", x.SourceURL),
		Ingredients: ingredients,
		Steps:       x.Steps,
		CuisineTags: []string{},
		DietTags:    []string{},
	}
	if x.Servings > 0 {
		rec.Servings = x.Servings
	}
	if x.TimeMinutes > 0 {
		rec.TimeMinutes = x.TimeMinutes
	}
	return rec
}

// Selector lists are ordered most-specific first; the first one that
// yields anything wins.
var ingredientSelectors = []string{
	`[itemprop="recipeIngredient"]`,
	`[itemprop="ingredients"]`,
	".recipe-ingredients li",
	".ingredients li",
	".ingredient-list li",
}

var stepSelectors = []string{
	`[itemprop="recipeInstructions"] li`,
	`[itemprop="recipeInstructions"] p`,
	".recipe-instructions li",
	".instructions li",
	".directions li",
	".recipe-steps li",
	"ol li",
}

func extractTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t := strings.TrimSpace(doc.Find(`[itemprop="name"]`).First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractList(doc *goquery.Document, selectors []string) []string {
	for _, sel := range selectors {
		var lines []string
		doc.Find(sel).Each(func(i int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if text != "" {
				lines = append(lines, text)
			}
		})
		if len(lines) > 0 {
			return lines
		}
	}
	return nil
}

func extractMinutes(text string) int {
	total := 0
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	return total
}
