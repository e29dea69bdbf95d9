package cli

import (
	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	var (
		room     string
		nickname string
		avatar   string
	)
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join an existing quiz room as a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if avatar == "" {
				avatar = cfg.Client.Avatars[0]
			}
			return runPlay(cmd.Context(), cfg, room, nickname, avatar)
		},
	}
	cmd.Flags().StringVar(&room, "room", "", "room code to join (env: QUIZO_ROOM)")
	cmd.Flags().StringVar(&nickname, "nickname", "", "nickname, unique within the room (env: QUIZO_NICKNAME)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar symbol (env: QUIZO_AVATAR)")
	return cmd
}
