package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quizo/internal/domain"
	"quizo/internal/transport/api"
)

func newCreateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quiz on the server and print its room code",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			quiz, err := loadQuizFile(file)
			if err != nil {
				return err
			}
			code, err := api.NewClient(cfg.Server.APIBaseURL).CreateQuiz(cmd.Context(), quiz)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "room code: %s\n", code)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "quiz.yaml", "quiz definition file (env: QUIZO_FILE)")
	return cmd
}

// loadQuizFile reads and validates a YAML quiz definition.
func loadQuizFile(path string) (domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("read quiz file: %w", err)
	}
	var quiz domain.Quiz
	if err := yaml.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("parse quiz file: %w", err)
	}
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}
