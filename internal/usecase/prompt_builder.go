package usecase

import (
	"fmt"
	"strings"

	"github.com/shoppingai/backend/internal/domain"
)

// Markers the model is told to emit so its free-text answer stays machine-parseable
const (
	LeadInMarker         = "살까말까?"
	RecommendationMarker = "추천–"
	RecommendationLine   = RecommendationMarker + " [제품명]을 구매하는 것을 추천합니다."
)

// SystemInstruction is sent once as the system message of every request
const SystemInstruction = "당신은 소비자가 여러 후보 상품 중 어떤 제품을 먼저 구매하면 좋을지 도와주는 AI입니다. " +
	"구매 욕구 점수가 가장 높은 제품을 그대로 고르지 말고, 가격, 구매 욕구, 사용 용도, 특징을 종합적으로 비교해서 판단하세요. " +
	"답변에는 반드시 '" + RecommendationLine + "' 형식의 문장을 한 줄로 포함하세요."

// BuildPrompt renders the products, in order, into the request messages.
// It never fails; callers enforce the two-product minimum.
func BuildPrompt(products []domain.Product) domain.Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "다음 %d개의 상품 중 어떤 것을 먼저 사는 것이 가장 좋은지 우선순위를 매겨서 추천해줘.\n\n", len(products))

	for i, p := range products {
		writeProductBlock(&b, i, p)
	}

	writeClosingInstructions(&b, len(products))

	return domain.Prompt{
		System: SystemInstruction,
		User:   b.String(),
	}
}

// writeProductBlock renders one "{n}번 상품" block
func writeProductBlock(b *strings.Builder, index int, p domain.Product) {
	fmt.Fprintf(b, "%d번 상품\n", index+1)
	fmt.Fprintf(b, "- 이름: %s\n", p.Name)
	fmt.Fprintf(b, "- 가격: %s\n", p.Price)
	fmt.Fprintf(b, "- 욕구: %d/10\n", p.PurchaseDesire)
	fmt.Fprintf(b, "- 사용 용도: %s\n", p.UsageContext)
	fmt.Fprintf(b, "- 특징: %s\n", p.Features)
	fmt.Fprintf(b, "- URL: %s\n\n", p.URL)
}

func writeClosingInstructions(b *strings.Builder, count int) {
	others := count - 1
	if others < 0 {
		others = 0
	}

	b.WriteString("각 제품을 비교한 뒤 아래 형식을 반드시 지켜서 답변해줘.\n\n")
	b.WriteString(LeadInMarker + "\n")
	b.WriteString(RecommendationLine + "\n\n")
	b.WriteString("- 추천 상품은 반드시 하나만 골라서 위 문장의 [제품명] 자리에 상품 이름을 그대로 적어줘.\n")
	b.WriteString("- 추천 이유를 최소 3가지 이상 번호를 붙인 목록(1. 2. 3.)으로 구체적으로 설명해줘.\n")
	fmt.Fprintf(b, "- 추천하지 않은 나머지 %d개 상품 각각에 대해 선택하지 않은 이유를 설명해줘.\n", others)
}
