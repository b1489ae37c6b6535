package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result and
// returns it with the path it was saved to.
func RunWizard() (*Config, string, error) {
	fmt.Println("Welcome to beacon! Let's configure your blog.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Article source.
	source, err := (&promptui.Prompt{
		Label:   "Article source (embedded, file, glob or URL)",
		Default: cfg.Articles.Source,
	}).Run()
	if err != nil {
		return nil, "", fmt.Errorf("article source: %w", err)
	}
	cfg.Articles.Source = strings.TrimSpace(source)

	// 2. Site port.
	port, err := promptPort("Site port", cfg.Server.Port)
	if err != nil {
		return nil, "", err
	}
	cfg.Server.Port = port

	// 3. Relay.
	relayPrompt := promptui.Select{
		Label: "Configure the email relay now?",
		Items: []string{"yes", "no"},
	}
	_, answer, err := relayPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("relay selection: %w", err)
	}
	if answer == "yes" {
		if err := relayWizard(&cfg.Relay); err != nil {
			return nil, "", err
		}
	}

	// 4. Location.
	locPrompt := promptui.Select{
		Label: "Save configuration for",
		Items: []string{"this project (" + LocalPath + ")", "this user (" + GlobalPath() + ")"},
	}
	idx, _, err := locPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("location selection: %w", err)
	}
	path := LocalPath
	if idx == 1 {
		path = GlobalPath()
	}

	if err := cfg.Save(path); err != nil {
		return nil, "", fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, path, nil
}

func relayWizard(r *RelayConfig) error {
	fields := []struct {
		label string
		dst   *string
		mask  bool
	}{
		{"SMTP host", &r.SMTP.Host, false},
		{"SMTP username", &r.SMTP.Username, false},
		{"SMTP password", &r.SMTP.Password, true},
		{"Sender address", &r.From, false},
		{"Recipient address", &r.To, false},
	}
	for _, f := range fields {
		p := promptui.Prompt{Label: f.label, Default: *f.dst, Validate: notEmpty}
		if f.mask {
			p.Mask = '*'
		}
		v, err := p.Run()
		if err != nil {
			return fmt.Errorf("%s: %w", strings.ToLower(f.label), err)
		}
		*f.dst = strings.TrimSpace(v)
	}

	port, err := promptPort("SMTP port", r.SMTP.Port)
	if err != nil {
		return err
	}
	r.SMTP.Port = port
	r.SMTP.TLS = port == 465 || port == 587
	return nil
}

func promptPort(label string, def int) (int, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(def),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("not a number")
			}
			return validPort(strings.ToLower(label), n)
		},
	}
	v, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n, nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}
