// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

// openrpcdoc renders and serves API references from OpenRPC documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/openrpcdoc"
	"github.com/woozymasta/openrpcdoc/casper"
	"github.com/woozymasta/openrpcdoc/internal/server"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/openrpcdoc"
	_buildTime string
)

// errCheckFailed is returned by the check command when the report fails the build.
var errCheckFailed = errors.New("document check failed")

// cliOptions describes openrpcdoc CLI flags and subcommands.
type cliOptions struct {
	Version  versionCommand  `command:"version" description:"Print version information"`
	Render   renderCommand   `command:"render" description:"Render OpenRPC document to markdown"`
	HTML     htmlCommand     `command:"html" description:"Render OpenRPC document to a standalone HTML page"`
	Check    checkCommand    `command:"check" description:"Check document integrity and example conformance"`
	Example  exampleCommand  `command:"example" description:"Generate params or schema example payload"`
	Export   exportCommand   `command:"export" description:"Export the document as JSON or YAML"`
	Template templateCommand `command:"template" description:"Print built-in markdown template"`
	Serve    serveCommand    `command:"serve" description:"Serve the rendered reference over HTTP"`
}

// markdownRenderFlags groups rendering flags shared by render, html and serve.
type markdownRenderFlags struct {
	TemplatePath string `short:"f" long:"template-file" description:"Path to custom markdown template (.gotmpl)"`
	Title        string `short:"T" long:"title" description:"Document title (defaults to info.title)"`
	ListMarker   string `short:"l" long:"list-marker" description:"Unordered list marker for normalized descriptions" choice:"-" choice:"*" default:"*"`
	WrapWidth    int    `short:"w" long:"wrap" description:"Wrap width for plain text descriptions" default:"80"`
}

// templateSelectFlags groups built-in template selection flags.
type templateSelectFlags struct {
	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"table" default:"list"`
}

// exampleRenderFlags enables generated params blocks in rendered output.
type exampleRenderFlags struct {
	ExampleMode   string `long:"example-mode" description:"Add generated params per method" choice:"all" choice:"required"`
	ExampleFormat string `long:"example-format" description:"Generated params encoding" choice:"json" choice:"yaml" default:"json"`
}

// renderCommand converts a document to markdown.
type renderCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input document path (optional; embedded Casper document when omitted, - for stdin)"`
		Output string `positional-arg-name:"output" description:"Output markdown file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
	RenderFlags   markdownRenderFlags `group:"Markdown Render"`
	ExampleFlags  exampleRenderFlags  `group:"Generated Examples"`
}

// Execute runs render subcommand.
func (command *renderCommand) Execute(_ []string) error {
	return command.runner.runRender(command.Args.Input, command.Args.Output, command.TemplateFlags, command.RenderFlags, command.ExampleFlags)
}

// htmlCommand converts a document to an HTML page.
type htmlCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input document path (optional; embedded Casper document when omitted, - for stdin)"`
		Output string `positional-arg-name:"output" description:"Output HTML file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	RenderFlags  markdownRenderFlags `group:"Render"`
	ExampleFlags exampleRenderFlags  `group:"Generated Examples"`
}

// Execute runs html subcommand.
func (command *htmlCommand) Execute(_ []string) error {
	return command.runner.runHTML(command.Args.Input, command.Args.Output, command.RenderFlags, command.ExampleFlags)
}

// checkCommand reports document integrity issues.
type checkCommand struct {
	runner *cliRunner
	Args   struct {
		Input string `positional-arg-name:"input" description:"Input document path (optional; embedded Casper document when omitted, - for stdin)"`
	} `positional-args:"yes"`

	Strict bool   `long:"strict" description:"Fail on warnings too"`
	Format string `long:"format" description:"Report format" choice:"text" choice:"json" choice:"yaml" default:"text"`
}

// Execute runs check subcommand.
func (command *checkCommand) Execute(_ []string) error {
	return command.runner.runCheck(command.Args.Input, command.Strict, command.Format)
}

// exampleCommand generates a placeholder payload.
type exampleCommand struct {
	runner *cliRunner
	Args   struct {
		Name   string `positional-arg-name:"name" description:"Method name, or schema name with --schema" required:"yes"`
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	Input  string `short:"i" long:"input" description:"Input document path (embedded Casper document when omitted)"`
	Schema bool   `short:"s" long:"schema" description:"Treat name as a component schema instead of a method"`
	Mode   string `short:"m" long:"mode" description:"Which fields to include" choice:"all" choice:"required" default:"all"`
	Format string `long:"format" description:"Payload encoding" choice:"json" choice:"yaml" default:"json"`
}

// Execute runs example subcommand.
func (command *exampleCommand) Execute(_ []string) error {
	return command.runner.runExample(command.Input, command.Args.Name, command.Schema, command.Mode, command.Format, command.Args.Output)
}

// exportCommand writes the document itself.
type exportCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	Input  string `short:"i" long:"input" description:"Input document path (embedded Casper document when omitted)"`
	Format string `long:"format" description:"Document encoding" choice:"json" choice:"yaml" default:"json"`
}

// Execute runs export subcommand.
func (command *exportCommand) Execute(_ []string) error {
	return command.runner.runExport(command.Input, command.Format, command.Args.Output)
}

// templateCommand exports built-in markdown template.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateFlags.TemplateName, command.Args.Output)
}

// serveCommand runs the documentation server.
type serveCommand struct {
	runner *cliRunner

	Listen    string `long:"listen" env:"OPENRPCDOC_LISTEN" description:"HTTP listen address" default:":8080"`
	Input     string `short:"i" long:"input" description:"Input document path (embedded Casper document when omitted)"`
	Watch     bool   `long:"watch" description:"Reload the input file when it changes"`
	LogLevel  string `long:"log-level" env:"OPENRPCDOC_LOG_LEVEL" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	LogFormat string `long:"log-format" description:"Log output format" choice:"json" choice:"console" default:"json"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
	RenderFlags   markdownRenderFlags `group:"Render"`
}

// Execute runs serve subcommand.
func (command *serveCommand) Execute(_ []string) error {
	return command.runner.runServe(serveOptions{
		Listen:    command.Listen,
		Input:     command.Input,
		Watch:     command.Watch,
		LogLevel:  command.LogLevel,
		LogFormat: command.LogFormat,
	}, command.TemplateFlags, command.RenderFlags)
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
	// serveContext overrides the signal-bound context of the serve command.
	serveContext context.Context
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	printVersionInfo(command.runner.stdout)
	return nil
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "openrpcdoc"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runRender renders markdown and writes result to stdout or file.
func (runner *cliRunner) runRender(inputPath, outputPath string, templateFlags templateSelectFlags, renderFlags markdownRenderFlags, exampleFlags exampleRenderFlags) error {
	doc, sourcePath, err := runner.readDocument(inputPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	renderOptions, err := buildRenderOptions(sourcePath, templateFlags, renderFlags, exampleFlags)
	if err != nil {
		return err
	}

	rendered, err := openrpcdoc.Render(doc, renderOptions)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	return runner.writeOutput(outputPath, []byte(rendered), "markdown")
}

// runHTML renders the HTML page and writes result to stdout or file.
func (runner *cliRunner) runHTML(inputPath, outputPath string, renderFlags markdownRenderFlags, exampleFlags exampleRenderFlags) error {
	doc, sourcePath, err := runner.readDocument(inputPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	renderOptions, err := buildRenderOptions(sourcePath, templateSelectFlags{}, renderFlags, exampleFlags)
	if err != nil {
		return err
	}

	rendered, err := openrpcdoc.RenderHTML(doc, renderOptions)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	return runner.writeOutput(outputPath, []byte(rendered), "html")
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := openrpcdoc.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	return runner.writeOutput(outputPath, []byte(tpl), "template")
}

// runExport writes the document re-encoded as JSON or YAML.
func (runner *cliRunner) runExport(inputPath, format, outputPath string) error {
	doc, _, err := runner.readDocument(inputPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	data, err := doc.Export(openrpcdoc.ExportFormat(format))
	if err != nil {
		return fmt.Errorf("export document: %w", err)
	}

	return runner.writeOutput(outputPath, data, "document")
}

// runExample writes a generated params or schema payload.
func (runner *cliRunner) runExample(inputPath, name string, schema bool, mode, format, outputPath string) error {
	doc, _, err := runner.readDocument(inputPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	var data []byte
	if schema {
		data, err = doc.GenerateSchemaExample(name, openrpcdoc.ExampleMode(mode), openrpcdoc.ExampleFormat(format))
	} else {
		data, err = doc.GenerateParamsExample(name, openrpcdoc.ExampleMode(mode), openrpcdoc.ExampleFormat(format))
	}

	if err != nil {
		return fmt.Errorf("generate example: %w", err)
	}

	return runner.writeOutput(outputPath, data, "example")
}

// readDocument loads the embedded document, stdin ("-") or a file, and returns a source marker.
func (runner *cliRunner) readDocument(path string) (*openrpcdoc.Document, string, error) {
	path = strings.TrimSpace(path)
	switch path {
	case "":
		doc, err := casper.Document()
		if err != nil {
			return nil, "", err
		}

		return doc, server.EmbeddedSource, nil
	case "-":
		data, err := io.ReadAll(runner.stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read document from stdin: %w", err)
		}

		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, "", errors.New("read document from stdin: empty input")
		}

		doc, err := openrpcdoc.Parse(data)
		if err != nil {
			return nil, "", err
		}

		return doc, "", nil
	default:
		doc, err := openrpcdoc.ParseFile(path)
		if err != nil {
			return nil, "", err
		}

		return doc, path, nil
	}
}

// writeOutput writes data to stdout or to the output file.
func (runner *cliRunner) writeOutput(outputPath string, data []byte, what string) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write %s to stdout: %w", what, err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("write %s file %q: %w", what, outputPath, err)
	}

	return nil
}

// buildRenderOptions maps CLI flags to renderer options.
func buildRenderOptions(sourcePath string, templateFlags templateSelectFlags, renderFlags markdownRenderFlags, exampleFlags exampleRenderFlags) (openrpcdoc.Options, error) {
	renderOptions := openrpcdoc.Options{
		Title:         renderFlags.Title,
		SourcePath:    sourcePath,
		TemplateName:  templateFlags.TemplateName,
		WrapWidth:     renderFlags.WrapWidth,
		ListMarker:    renderFlags.ListMarker,
		ExampleMode:   openrpcdoc.ExampleMode(exampleFlags.ExampleMode),
		ExampleFormat: openrpcdoc.ExampleFormat(exampleFlags.ExampleFormat),
	}

	if renderFlags.TemplatePath != "" {
		customTemplate, err := os.ReadFile(renderFlags.TemplatePath)
		if err != nil {
			return openrpcdoc.Options{}, fmt.Errorf("read template file %q: %w", renderFlags.TemplatePath, err)
		}

		renderOptions.TemplateText = string(customTemplate)
	}

	return renderOptions, nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Render.runner = runner
	options.HTML.runner = runner
	options.Check.runner = runner
	options.Example.runner = runner
	options.Export.runner = runner
	options.Template.runner = runner
	options.Serve.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"render": strings.TrimSpace(fmt.Sprintf(`
Render an OpenRPC document to CommonMark.
Without an input argument the embedded Casper node document is rendered.

Examples:
> $ %s render > casper.md
> $ %s render -t table --example-mode required openrpc.json docs/api.md
`, programName, programName)),
		"html": strings.TrimSpace(fmt.Sprintf(`
Render an OpenRPC document to a standalone HTML page.

Examples:
> $ %s html > index.html
> $ cat openrpc.json | %s html - site/index.html
`, programName, programName)),
		"check": strings.TrimSpace(fmt.Sprintf(`
Check reference resolution, example params order, union variants and
required properties, then validate example values against their schemas.
Exits with code 1 on errors, or on warnings with --strict.

Examples:
> $ %s check
> $ %s check --strict --format json openrpc.json
`, programName, programName)),
		"example": strings.TrimSpace(fmt.Sprintf(`
Generate a placeholder payload for method params or a component schema.

Examples:
> $ %s example state_get_item
> $ %s example --schema --format yaml Deploy
`, programName, programName)),
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in markdown template text (`+"`list` or `table`"+`).
Use it as a starting point for a custom template file.

Examples:
> $ %s template > list.gotmpl
> $ %s template -t table templates/table.gotmpl
`, programName, programName)),
		"serve": strings.TrimSpace(fmt.Sprintf(`
Serve the HTML reference, markdown, the document and its check report over HTTP.
With --watch the input file is reloaded on change; a broken file keeps the
previous revision.

Examples:
> $ %s serve --listen 127.0.0.1:8080
> $ %s serve --input openrpc.json --watch --log-format console
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func (runner *cliRunner) signalContext() (context.Context, context.CancelFunc) {
	if runner.serveContext != nil {
		return context.WithCancel(runner.serveContext)
	}

	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printVersionInfo(output io.Writer) {
	_, _ = fmt.Fprintf(output, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
