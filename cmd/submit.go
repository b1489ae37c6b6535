package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/bytetobeacon/beacon/internal/forms"
)

var submitCmd = &cobra.Command{
	Use:   "submit <contact|article>",
	Short: "Send a contact message or article submission through the relay",
	Long: `Fills in a form and posts it to the email relay, exactly as the blog's
forms do. Fields given with --set are used as is; any missing required
field is prompted for. --file attaches a document to an article.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(forms.KindContact), string(forms.KindArticle)},
	RunE:      runSubmit,
}

func init() {
	submitCmd.Flags().StringArray("set", nil, "field value as name=value (repeatable)")
	submitCmd.Flags().String("file", "", "file to attach to an article submission")
	submitCmd.Flags().String("endpoint", "", "relay endpoint (overrides config)")
	submitCmd.Flags().Bool("no-prompt", false, "fail instead of prompting for missing fields")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	kind := forms.Kind(args[0])
	if !kind.Valid() {
		return fmt.Errorf("%w: %q (want contact or article)", forms.ErrUnknownKind, args[0])
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	file, _ := cmd.Flags().GetString("file")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if endpoint == "" {
		endpoint = cfg.FormsEndpoint()
	}

	fields, err := parseFieldArgs(sets)
	if err != nil {
		return err
	}
	if !noPrompt {
		if err := promptMissing(kind, fields); err != nil {
			return err
		}
	}

	sub := forms.Submission{Kind: kind, Fields: fields}
	if file != "" {
		if kind != forms.KindArticle {
			return errors.New("--file is only accepted for article submissions")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading attachment: %w", err)
		}
		sub.Attachment = forms.NewAttachment(filepath.Base(file), data)
	}

	fmt.Println(forms.BusyLabel)
	msg, err := forms.NewClient(endpoint).Submit(cmd.Context(), sub)
	if err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s (%w)", verr.Message(), err)
		}
		return err
	}
	fmt.Println(msg)
	return nil
}

// parseFieldArgs turns name=value pairs into form fields.
func parseFieldArgs(sets []string) (forms.Fields, error) {
	fields := forms.Fields{}
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q: want name=value", s)
		}
		fields[strings.TrimSpace(name)] = value
	}
	return fields, nil
}

func promptMissing(kind forms.Kind, fields forms.Fields) error {
	for _, name := range forms.RequiredFields(kind) {
		if strings.TrimSpace(fields[name]) != "" {
			continue
		}
		p := promptui.Prompt{Label: name, Validate: requiredField}
		if name == forms.EmailField(kind) {
			p.Validate = emailField
		}
		value, err := p.Run()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fields[name] = value
	}
	return nil
}

func requiredField(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func emailField(s string) error {
	if !forms.ValidEmail(strings.TrimSpace(s)) {
		return errors.New("enter a valid email address")
	}
	return nil
}
