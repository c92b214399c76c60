package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/usecase"
)

type stubClient struct {
	answer string
	err    error
}

func (s stubClient) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	return s.answer, s.err
}

const productsYAML = `
products:
  - name: Widget A
    price: "10,000원"
    purchaseDesire: 7
    usageContext: 출퇴근길
    features: 가볍고 방수
    url: shop.example.com/a
  - id: custom
    name: 무선 이어폰
    purchaseDesire: 3
`

func TestParseProducts(t *testing.T) {
	products, err := parseProducts([]byte(productsYAML))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "1", products[0].ID)
	assert.Equal(t, "Widget A", products[0].Name)
	assert.Equal(t, "10,000원", products[0].Price)
	assert.Equal(t, 7, products[0].PurchaseDesire)
	assert.Equal(t, "shop.example.com/a", products[0].URL)
	assert.Equal(t, "custom", products[1].ID)
}

func TestParseProducts_Invalid(t *testing.T) {
	_, err := parseProducts([]byte("products: [unterminated"))
	assert.Error(t, err)
}

func TestLoadProductsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(productsYAML), 0644))

	products, err := loadProductsFile(path)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = loadProductsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunRecommendation(t *testing.T) {
	products, err := parseProducts([]byte(productsYAML))
	require.NoError(t, err)

	t.Run("prints answer and purchase link", func(t *testing.T) {
		answer := "살까말까?\n추천– [Widget A]을 구매하는 것을 추천합니다."
		service := usecase.NewRecommendationService(stubClient{answer: answer}, nil)
		var out bytes.Buffer

		err := runRecommendation(context.Background(), &out, service, products, zap.NewNop())

		require.NoError(t, err)
		assert.Contains(t, out.String(), pendingNotice)
		assert.Contains(t, out.String(), answer)
		assert.Contains(t, out.String(), "https://shop.example.com/a")
	})

	t.Run("prints unresolved notice", func(t *testing.T) {
		service := usecase.NewRecommendationService(stubClient{answer: "모르겠어요"}, nil)
		var out bytes.Buffer

		err := runRecommendation(context.Background(), &out, service, products, zap.NewNop())

		require.NoError(t, err)
		assert.Contains(t, out.String(), unresolvedNotice)
	})

	t.Run("reports invalid url of the resolved product", func(t *testing.T) {
		answer := "추천– 무선 이어폰를 구매하는 것을 추천합니다."
		service := usecase.NewRecommendationService(stubClient{answer: answer}, nil)
		var out bytes.Buffer

		err := runRecommendation(context.Background(), &out, service, products, zap.NewNop())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "유효하지 않은 URL")
	})

	t.Run("returns failed state as error", func(t *testing.T) {
		client := stubClient{err: fmt.Errorf("%w: status 500", domain.ErrRecommendationTransport)}
		service := usecase.NewRecommendationService(client, nil)
		var out bytes.Buffer

		err := runRecommendation(context.Background(), &out, service, products, zap.NewNop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), string(domain.FailureTransport))
	})

	t.Run("canceled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := stubClient{err: fmt.Errorf("%w: %v", domain.ErrRecommendationCanceled, context.Canceled)}
		service := usecase.NewRecommendationService(client, nil)
		var out bytes.Buffer

		err := runRecommendation(ctx, &out, service, products, zap.NewNop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), string(domain.FailureCanceled))
	})
}

func TestURLCommand(t *testing.T) {
	t.Run("prints normalized url", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"url", "shop.example.com/item?id=5&ref=ai"})

		require.NoError(t, rootCmd.Execute())
		assert.Equal(t, "https://shop.example.com/item?id=5&ref=ai\n", out.String())
	})

	t.Run("rejects empty url", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs([]string{"url", ""})

		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "유효하지 않은 URL")
	})
}
