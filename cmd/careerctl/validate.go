package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/career-rpg/pkg/gameconfig"
)

func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a game config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validating %s...\n", path)

			cfg, err := gameconfig.Load(path)
			if err != nil {
				return err
			}

			problems := cfg.Validate()
			for _, p := range problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			if len(problems) > 0 && strict {
				return fmt.Errorf("%d problem(s) found in %s", len(problems), path)
			}

			fmt.Fprintf(out, "%d NPC classes, default engine %s, interview engine %s\n",
				len(cfg.NPCClasses()), cfg.NPCEngine(""), cfg.InterviewEngine())
			if len(problems) == 0 {
				fmt.Fprintln(out, "Game config is valid!")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any problem is reported")
	return cmd
}
