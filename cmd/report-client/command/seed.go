package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediahub/internal/catalogclient"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a small demo catalog",
	Long:  `Create a few media items and users through the catalog API and subscribe users to them.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		media := []catalogclient.Media{
			{Title: "Back to the Future", ReleaseDate: catalogclient.NewDate(1985, time.July, 3), AverageRating: 8.5, Type: "MOVIE"},
			{Title: "Blade Runner", ReleaseDate: catalogclient.NewDate(1982, time.June, 25), AverageRating: 8.1, Type: "MOVIE"},
			{Title: "Psycho", ReleaseDate: catalogclient.NewDate(1960, time.September, 8), AverageRating: 8.5, Type: "MOVIE"},
			{Title: "Twin Peaks", ReleaseDate: catalogclient.NewDate(1990, time.April, 8), AverageRating: 8.8, Type: "TV_SHOW"},
			{Title: "Miami Vice", ReleaseDate: catalogclient.NewDate(1984, time.September, 16), AverageRating: 7.4, Type: "TV_SHOW"},
		}
		users := []catalogclient.User{
			{Name: "Alice", Age: 34, Gender: "FEMALE"},
			{Name: "Bruno", Age: 52, Gender: "MALE"},
			{Name: "Sam", Age: 23, Gender: "OTHER"},
		}
		// user index -> media indexes
		subscriptions := map[int][]int{
			0: {0, 1, 3},
			1: {0, 2},
			2: {3, 4},
		}

		mediaIDs := make([]int64, len(media))
		for i, m := range media {
			created, err := client.CreateMedia(ctx, m)
			if err != nil {
				return err
			}
			mediaIDs[i] = created.ID
			fmt.Fprintf(cmd.OutOrStdout(), "media %d: %s\n", created.ID, created.Title)
		}

		userIDs := make([]int64, len(users))
		for i, u := range users {
			created, err := client.CreateUser(ctx, u)
			if err != nil {
				return err
			}
			userIDs[i] = created.ID
			fmt.Fprintf(cmd.OutOrStdout(), "user %d: %s\n", created.ID, created.Name)
		}

		n := 0
		for ui, mis := range subscriptions {
			for _, mi := range mis {
				if _, err := client.Subscribe(ctx, userIDs[ui], mediaIDs[mi]); err != nil {
					return err
				}
				n++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d subscriptions created\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
