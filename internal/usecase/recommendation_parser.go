package usecase

import (
	"strings"

	"github.com/shoppingai/backend/internal/domain"
)

// purchaseSuffixes are the two particle forms of "을/를 구매" that end the product name
var purchaseSuffixes = []string{"을 구매", "를 구매"}

// emphasisReplacer strips markdown emphasis the model tends to wrap around the sentinel line
var emphasisReplacer = strings.NewReplacer("*", "")

// ExtractRecommendedName finds the first sentinel line of a model answer and returns
// the product name it carries. It returns false when no sentinel line is present or
// the line names nothing.
func ExtractRecommendedName(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = emphasisReplacer.Replace(line)

		idx := strings.Index(line, RecommendationMarker)
		if idx < 0 {
			continue
		}

		candidate := strings.TrimSpace(line[idx+len(RecommendationMarker):])
		candidate = cutAtPurchaseSuffix(candidate)
		candidate = stripBrackets(strings.TrimSpace(candidate))

		if candidate == "" {
			return "", false
		}
		return candidate, true
	}
	return "", false
}

// cutAtPurchaseSuffix keeps everything before the earliest "을 구매" / "를 구매".
// Without either suffix the whole remainder is the candidate.
func cutAtPurchaseSuffix(s string) string {
	cut := -1
	for _, suffix := range purchaseSuffixes {
		if i := strings.Index(s, suffix); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 {
		return s
	}
	return s[:cut]
}

// stripBrackets removes exactly one enclosing [ ] pair
func stripBrackets(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// ResolveProduct returns the first product whose trimmed name equals the trimmed name.
// Matching is exact; a paraphrased name resolves to nothing.
func ResolveProduct(name string, products []domain.Product) (*domain.Product, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}

	for i := range products {
		if strings.TrimSpace(products[i].Name) == name {
			p := products[i]
			return &p, true
		}
	}
	return nil, false
}
