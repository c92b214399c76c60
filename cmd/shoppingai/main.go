package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shoppingai",
	Short: "shoppingai - ask a language model which product to buy first",
	Long: `shoppingai sends a list of candidate products to a chat-completion API,
prints the model's ranked recommendation and opens the way to the winner's purchase link.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(urlCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
