//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pardeema/trivia-music/cmd"
	"github.com/pardeema/trivia-music/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		*testCtx = setupContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists yet$`, testCtx.noConfigFileExistsYet)
	ctx.Step(`^a config file already exists$`, testCtx.aConfigFileAlreadyExists)
	ctx.Step(`^I run setup with answers:$`, testCtx.iRunSetupWithAnswers)
	ctx.Step(`^I run setup declining the overwrite$`, testCtx.iRunSetupDecliningTheOverwrite)
	ctx.Step(`^I show the config$`, testCtx.iShowTheConfig)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config should have output directory "([^"]*)"$`, testCtx.theConfigShouldHaveOutputDirectory)
	ctx.Step(`^the config should have ffmpeg path "([^"]*)"$`, testCtx.theConfigShouldHaveFFmpegPath)
	ctx.Step(`^the config should have parallelism (\d+)$`, testCtx.theConfigShouldHaveParallelism)
	ctx.Step(`^the config should have drive disabled$`, testCtx.theConfigShouldHaveDriveDisabled)
	ctx.Step(`^the config should have drive folder "([^"]*)"$`, testCtx.theConfigShouldHaveDriveFolder)
	ctx.Step(`^setup should fail with "([^"]*)"$`, testCtx.setupShouldFailWith)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
	ctx.Step(`^the config output should mention "([^"]*)"$`, testCtx.theConfigOutputShouldMention)
}

func (s *setupContext) noConfigFileExistsYet() error {
	// The config directory exists but holds no config file
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aConfigFileAlreadyExists() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `paths:
  output_directory: "/original/rounds"
  tracks_file: "config/tracks.yaml"
processing:
  parallelism: 3
  timeout_minutes: 10
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

// parseAnswerTable splits a prompt/answer table into the input and confirm
// queues the MockPrompter consumes. The drive question is the only confirm.
func parseAnswerTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		if strings.HasPrefix(prompt, "use drive") {
			confirms = append(confirms, strings.ToLower(value) == "y")
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func (s *setupContext) iRunSetupWithAnswers(table *godog.Table) error {
	inputs, confirms := parseAnswerTable(table)
	prompter := NewMockPrompter(inputs, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	return nil
}

func (s *setupContext) iRunSetupDecliningTheOverwrite() error {
	prompter := NewMockPrompter(nil, []bool{false})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %v", s.err)
	}
	return nil
}

func (s *setupContext) iShowTheConfig() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %v", err)
	}
	return cmd.RunConfigShowWithDependencies(cfg, s.configPath, s.output)
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveOutputDirectory(expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if cfg.Paths.OutputDirectory != expected {
		return fmt.Errorf("expected output_directory %q, got %q", expected, cfg.Paths.OutputDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveFFmpegPath(expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if cfg.Paths.FFmpegPath != expected {
		return fmt.Errorf("expected ffmpeg_path %q, got %q", expected, cfg.Paths.FFmpegPath)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveParallelism(expected int) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if cfg.Processing.Parallelism != expected {
		return fmt.Errorf("expected parallelism %d, got %d", expected, cfg.Processing.Parallelism)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveDriveDisabled() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if cfg.Drive.FolderID != "" {
		return fmt.Errorf("expected no drive folder, got %q", cfg.Drive.FolderID)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveDriveFolder(expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if cfg.Drive.FolderID != expected {
		return fmt.Errorf("expected drive folder %q, got %q", expected, cfg.Drive.FolderID)
	}
	return nil
}

func (s *setupContext) setupShouldFailWith(expected string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail with %q, but it succeeded", expected)
	}
	if !strings.Contains(s.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, s.err)
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %v", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}

func (s *setupContext) theConfigOutputShouldMention(expected string) error {
	if !strings.Contains(s.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, s.output.String())
	}
	return nil
}
