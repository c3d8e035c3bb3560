package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rag-chat/internal/app"
	"rag-chat/internal/tui"

	"github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func getBinaryPath() string {
	exe, _ := os.Executable()
	return exe
}

func generateCompletion(shell string) error {
	switch shell {
	case "bash":
		fmt.Println("# bash completion for ragchat")
		fmt.Println("_ragchat_completions() {")
		fmt.Println("    local cur opts")
		fmt.Println("    COMPREPLY=()")
		fmt.Println("    cur=\"${COMP_WORDS[COMP_CWORD]}\"")
		fmt.Println("    opts=\"login logout whoami ask reset add-user completion help version --admin --help\"")
		fmt.Println("    if [[ $COMP_CWORD -eq 1 ]]; then")
		fmt.Println("        COMPREPLY=( $(compgen -W \"${opts}\" -- \"${cur}\") )")
		fmt.Println("    fi")
		fmt.Println("    return 0")
		fmt.Println("}")
		fmt.Println("complete -F _ragchat_completions ragchat")
	case "zsh":
		fmt.Println("# zsh completion for ragchat")
		fmt.Println("compdef _ragchat ragchat")
		fmt.Println("_ragchat() {")
		fmt.Println("    _arguments -C \\")
		fmt.Println("        '(-h --help)'{-h,--help}'[show help]' \\")
		fmt.Println("        '(-v --version)'{-v,--version}'[print version]' \\")
		fmt.Println("        '1:command:(login logout whoami ask reset add-user completion)'")
		fmt.Println("}")
	case "fish":
		fmt.Println("# fish completion for ragchat")
		fmt.Println("complete -c ragchat -f -a 'login logout whoami ask reset add-user completion'")
		fmt.Println("complete -c ragchat -s h -l help -d 'Show help'")
		fmt.Println("complete -c ragchat -s v -l version -d 'Print version'")
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the config file.
func applyEnvOverrides(cfg *app.Config) {
	if v := os.Getenv("RAGCHAT_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
}

// newApplication loads config, applies environment overrides, and restores
// any saved identity from disk.
func newApplication() (*app.Application, error) {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)

	application := app.NewApplication(cfg)
	application.Auth.RestoreSession()
	return application, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

func requireLogin(application *app.Application) error {
	if !application.Auth.IsLoggedIn() {
		return fmt.Errorf("not logged in. Run: ragchat login <email>")
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:     "ragchat",
		Short:   "ragchat - chat with the papers-RAG agent",
		Long:    "ragchat is a terminal client for the papers-RAG question answering service.\n\nUse without arguments for the interactive TUI, or with subcommands for one-shot use.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Printf("ragchat v%s\n", version)
				fmt.Printf("Installed at: %s\n", getBinaryPath())
				return nil
			}

			application, err := newApplication()
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(application), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.Flags().BoolP("version", "v", false, "Print version information")

	loginCmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in with a registered email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			application, err := newApplication()
			if err != nil {
				return err
			}

			resp := application.Auth.Login(ctx, args[0])
			if resp.Status != app.StatusSuccess {
				return fmt.Errorf("%s", resp.Message)
			}
			fmt.Printf("Logged in as %s", args[0])
			if resp.IsAdmin {
				fmt.Printf(" (admin)")
			}
			fmt.Println()
			return nil
		},
	}
	root.AddCommand(loginCmd)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			application.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
	root.AddCommand(logoutCmd)

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			if !application.Auth.IsLoggedIn() {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("%s", application.Auth.UserEmail())
			if application.Auth.IsAdmin() {
				fmt.Printf(" (admin)")
			}
			fmt.Println()
			return nil
		},
	}
	root.AddCommand(whoamiCmd)

	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Send one question and print the answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			application, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(application); err != nil {
				return err
			}

			resp, err := application.SendMessage(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			if resp.Status != app.StatusSuccess {
				os.Exit(1)
			}
			return nil
		},
	}
	root.AddCommand(askCmd)

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Ask the backend to drop the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			application, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(application); err != nil {
				return err
			}

			resp, err := application.ResetSession(ctx)
			if err != nil {
				return err
			}
			if resp.Status != app.StatusSuccess {
				return fmt.Errorf("%s", resp.Message)
			}
			fmt.Println("Session reset")
			return nil
		},
	}
	root.AddCommand(resetCmd)

	addUserCmd := &cobra.Command{
		Use:   "add-user <email>",
		Short: "Register a new user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			application, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(application); err != nil {
				return err
			}

			resp, err := application.AddUser(ctx, args[0], addUserAdmin)
			if err != nil {
				return err
			}
			if resp.Status != app.StatusSuccess {
				return fmt.Errorf("%s", resp.Message)
			}
			fmt.Printf("Added user %s\n", args[0])
			return nil
		},
	}
	addUserCmd.Flags().BoolVar(&addUserAdmin, "admin", false, "Grant the new user admin rights")
	root.AddCommand(addUserCmd)

	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion",
		Long:  "Generate shell completion script for ragchat.\n\nExamples:\n  - ragchat completion bash >> ~/.bashrc\n  - ragchat completion zsh > ~/.zsh/completion/_ragchat\n  - ragchat completion fish > ~/.config/fish/completions/ragchat.fish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateCompletion(args[0])
		},
	}
	root.AddCommand(completionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var addUserAdmin bool
