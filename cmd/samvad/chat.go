package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ent0n29/samvad/internal/app"
	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/session"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

var chatLanguage string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the IVR dialogue from the terminal",
	Long: `Starts a call and reads one caller utterance per line from stdin.

Console commands:
  /new    hang up and start a new call
  /state  print the current session state and collected data
  /quit   exit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatLanguage, "language", "en", "greeting language (en or hi)")
}

func runChat(cmd *cobra.Command, _ []string) error {
	lang := taxonomy.Language(strings.ToLower(chatLanguage))
	if lang != taxonomy.English && lang != taxonomy.Hindi {
		return fmt.Errorf("unsupported language %q", chatLanguage)
	}

	ctx := cmd.Context()
	res, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("cleanup failed", zap.Error(err))
		}
	}()

	return chatLoop(ctx, res.Sessions, lang, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chatLoop(ctx context.Context, sessions *session.Manager, lang taxonomy.Language, in io.Reader, out io.Writer) error {
	start := func() (string, error) {
		s, err := sessions.Start(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(out, "IVR: %s\n", dialogue.Welcome(lang))
		return s.ID, nil
	}
	id, err := start()
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			_ = sessions.End(ctx, id)
			return nil
		case "/new":
			_ = sessions.End(ctx, id)
			if id, err = start(); err != nil {
				return err
			}
			continue
		case "/state":
			s, err := sessions.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "state=%s language=%s data=%+v\n", s.State, s.Language, s.Data)
			continue
		}

		resp, err := sessions.Submit(ctx, id, line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "IVR: %s\n", resp.Message)
		if resp.IsComplete {
			fmt.Fprintf(out, "-- complaint %s registered; /new starts another call\n", resp.CollectedData.ComplaintID)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	_ = sessions.End(ctx, id)
	return nil
}
