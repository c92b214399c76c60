package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/usecase"
)

var urlCmd = &cobra.Command{
	Use:   "url <raw>",
	Short: "Normalize a product URL into an openable link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := usecase.NormalizePurchaseURL(args[0])
		if err != nil {
			if errors.Is(err, domain.ErrInvalidURL) {
				return fmt.Errorf("유효하지 않은 URL입니다: %q", args[0])
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u.String())
		return nil
	},
}
