package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizo/internal/transport/api"
)

func newHostCmd() *cobra.Command {
	var (
		file     string
		room     string
		nickname string
	)
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Create a quiz (or reattach to a room) and run it as host",
		Long: "Creates the quiz on the server, prints the room code for players " +
			"to join, then connects as the first participant, which makes this " +
			"client the host.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if room == "" {
				quiz, err := loadQuizFile(file)
				if err != nil {
					return err
				}
				room, err = api.NewClient(cfg.Server.APIBaseURL).CreateQuiz(cmd.Context(), quiz)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "room code: %s\n", room)
			}
			return runPlay(cmd.Context(), cfg, room, nickname, cfg.Client.HostAvatar)
		},
	}
	cmd.Flags().StringVar(&file, "file", "quiz.yaml", "quiz definition file (env: QUIZO_FILE)")
	cmd.Flags().StringVar(&room, "room", "", "reattach to an existing room instead of creating one (env: QUIZO_ROOM)")
	cmd.Flags().StringVar(&nickname, "nickname", "", "host nickname (env: QUIZO_NICKNAME)")
	return cmd
}
