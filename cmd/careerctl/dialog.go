package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/career-rpg/internal/activity"
	"github.com/jwebster45206/career-rpg/internal/services"
	"github.com/jwebster45206/career-rpg/pkg/engine"
	"github.com/jwebster45206/career-rpg/pkg/gameconfig"
)

func newDialogCmd() *cobra.Command {
	var (
		configPath string
		npcClass   string
		npcName    string
		message    string
		player     string
		day        int
		employed   bool
		job        string
		skills     map[string]string
		provider   string
		model      string
		turn       int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "dialog",
		Short: "Run one NPC dialog turn through the activity engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gameconfig.Load(configPath)
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			if model == "" {
				model = cfg.LLM.Model
			}
			llm, err := services.NewProvider(provider, model, logger)
			if err != nil {
				return err
			}

			levels := make(map[string]engine.Proficiency, len(skills))
			for name, label := range skills {
				p, err := engine.ParseProficiency(label)
				if err != nil {
					return fmt.Errorf("--skill %s: %w", name, err)
				}
				levels[name] = p
			}
			gc := engine.FromGameState(player, levels, employed || job != "", job, day)

			npcEngine := activity.NewNPCEngine(cfg, llm, services.NewResponseCache(), logger)
			out, err := npcEngine.Execute(context.Background(), activity.NPCInput{
				NPCClass:      npcClass,
				NPCName:       npcName,
				PlayerMessage: message,
				Turn:          turn,
			}, gc)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out.Text)
			fmt.Fprintf(w, "[engine=%s from_provider=%t cached=%t]\n", out.Engine, out.FromProvider, out.Cached)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", defaultConfigPath, "game config path")
	f.StringVar(&npcClass, "npc", "", "NPC class to talk to")
	f.StringVar(&npcName, "name", "", "NPC display name")
	f.StringVar(&message, "message", "", "what the player says (empty for the opening turn)")
	f.StringVar(&player, "player", "Player", "player name")
	f.IntVar(&day, "day", 1, "current game day")
	f.BoolVar(&employed, "employed", false, "player has a job")
	f.StringVar(&job, "job", "", "player's current job title (implies --employed)")
	f.StringToStringVar(&skills, "skill", nil, "player skill as name=level, repeatable")
	f.StringVar(&provider, "provider", "mock", "LLM provider (anthropic or mock)")
	f.StringVar(&model, "model", "", "model name (defaults to the game config)")
	f.IntVar(&turn, "turn", 0, "conversation turn")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	_ = cmd.MarkFlagRequired("npc")

	return cmd
}
