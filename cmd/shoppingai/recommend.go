package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shoppingai/backend/config"
	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/infrastructure/logger"
	"github.com/shoppingai/backend/internal/infrastructure/openai"
	"github.com/shoppingai/backend/internal/usecase"
)

const (
	pendingNotice    = "로딩 중입니다..."
	unresolvedNotice = "추천 상품을 확인할 수 없습니다"
)

var productsFile string

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Ask which of the products in a YAML file to buy first",
	Long: `recommend reads candidate products from a YAML file, sends them to the
configured chat-completion API and prints the answer with the purchase link of
the recommended product. Ctrl-C cancels the request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := loadProductsFile(productsFile)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		defer zlog.Sync()

		client := openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.OpenAI.Timeout,
		}, zlog)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		service := usecase.NewRecommendationService(client, zlog)
		return runRecommendation(ctx, cmd.OutOrStdout(), service, products, zlog)
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&productsFile, "file", "f", "products.yaml", "YAML file listing the candidate products")
}

// runRecommendation drives one session and renders each of its states
func runRecommendation(ctx context.Context, out io.Writer, service *usecase.RecommendationService, products []domain.Product, zlog *zap.Logger) error {
	sess := service.Start(ctx, products)

	var last domain.RecommendationState
	for state := range sess.Updates() {
		last = state
		if !state.Terminal() {
			fmt.Fprintln(out, pendingNotice)
		}
	}

	if !last.Terminal() {
		return errors.New("추천 요청이 완료되지 않았습니다")
	}
	if last.Status == domain.StatusFailed {
		zlog.Debug("recommendation failed", zap.String("failure", string(last.Failure)))
		return fmt.Errorf("추천 요청에 실패했습니다 (%s): %s", last.Failure, last.Error)
	}

	rec := last.Result
	fmt.Fprintln(out)
	fmt.Fprintln(out, rec.Answer)
	fmt.Fprintln(out)

	link, err := service.PurchaseURL(rec)
	switch {
	case err == nil:
		fmt.Fprintf(out, "구매 링크 (%s): %s\n", rec.Product.Name, link)
	case rec.Resolved():
		fmt.Fprintf(out, "유효하지 않은 URL입니다: %q\n", rec.Product.URL)
	default:
		fmt.Fprintln(out, unresolvedNotice)
	}
	return nil
}

type productsDocument struct {
	Products []domain.Product `yaml:"products"`
}

// loadProductsFile reads a products document and numbers products that carry no id
func loadProductsFile(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}
	return parseProducts(data)
}

func parseProducts(data []byte) ([]domain.Product, error) {
	var doc productsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse products file: %w", err)
	}

	for i := range doc.Products {
		if doc.Products[i].ID == "" {
			doc.Products[i].ID = strconv.Itoa(i + 1)
		}
	}
	return doc.Products, nil
}
