package cli

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"storefront/models"
)

func NewReviewsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write store reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewsList(cmd, rootOpts)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show published reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewsList(cmd, rootOpts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print published reviews as they change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := newOutput(cmd, rootOpts)
			unsub := a.Reviews.Subscribe(func(list []models.Review) {
				printReviews(out, list, a.Reviews.Average())
			})
			defer unsub()

			a.Reviews.Run(ctx)
			return nil
		},
	})
	cmd.AddCommand(newReviewSubmitCommand(rootOpts))

	return cmd
}

func runReviewsList(cmd *cobra.Command, rootOpts *RootOptions) error {
	a, err := openApp(cmd, rootOpts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Reviews.Refresh(cmd.Context())
	if a.Reviews.LastFetch().IsZero() {
		return NewExitError(ExitFailure, "could not load reviews")
	}
	return printReviews(newOutput(cmd, rootOpts), a.Reviews.Reviews(), a.Reviews.Average())
}

func newReviewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title   string
		content string
		rating  int
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a review for moderation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			msg, err := a.Reviews.Submit(cmd.Context(), title, content, rating)
			if err != nil {
				return err
			}
			return newOutput(cmd, rootOpts).message(msg)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "review title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "review text")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 5")

	return cmd
}

func printReviews(out *output, list []models.Review, avg float64) error {
	data := struct {
		Reviews []models.Review `json:"reviews"`
		Average float64         `json:"average"`
	}{list, avg}

	return out.emit(data, func(w io.Writer) {
		fmt.Fprintf(w, "%d reviews, average %.1f\n\n", len(list), avg)
		for _, r := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("*", r.Rating), r.Title, r.Author)
			fmt.Fprintf(w, "\t%s\n", r.Content)
		}
	})
}
