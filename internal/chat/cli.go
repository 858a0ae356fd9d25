// Package chat wires the provider selector and the conversation loop into a
// console client.
package chat

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"

	"github.com/davidhbaek/termchat/internal/wire"
)

type env struct {
	config       Config
	session      *Session
	model        string
	systemPrompt string
	images       fileList
	docs         fileList
	timeout      time.Duration
	maxTurns     int
	verbose      bool
}

type fileList []string

var _ flag.Value = &fileList{}

func (f *fileList) String() string {
	return fmt.Sprintf("%v", *f)
}

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func CLI(args []string) int {
	app := env{}
	if err := app.fromArgs(args); err != nil {
		fmt.Fprintf(os.Stderr, "parsing args: %v\n", err)
		return 2
	}

	if err := app.run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}

	return 0
}

func (app *env) fromArgs(args []string) error {
	// .env is optional; the environment may already carry the keys
	_ = godotenv.Load()

	fl := flag.NewFlagSet("termchat", flag.ContinueOnError)

	var system string
	fl.StringVar(&system, "s", "", "system prompt (inline text or a .txt path)")
	fl.StringVar(&system, "system", "", "system prompt (inline text or a .txt path)")

	var model string
	fl.StringVar(&model, "m", "", "override the provider's default model")
	fl.StringVar(&model, "model", "", "override the provider's default model")

	var images fileList
	fl.Var(&images, "i", "list of image paths (filenames and URLs)")
	fl.Var(&images, "image", "list of image paths (filenames and URLs)")

	var docs fileList
	fl.Var(&docs, "d", "list of filepaths to docs (PDFs)")
	fl.Var(&docs, "document", "list of filepaths to docs (PDFs)")

	var timeout time.Duration
	fl.DurationVar(&timeout, "t", 2*time.Minute, "per-request timeout")
	fl.DurationVar(&timeout, "timeout", 2*time.Minute, "per-request timeout")

	var maxTurns int
	fl.IntVar(&maxTurns, "max-turns", 0, "user turns to retain in history (0 = unbounded)")

	var verbose bool
	fl.BoolVar(&verbose, "v", false, "dump the resolved app state before chatting")
	fl.BoolVar(&verbose, "verbose", false, "dump the resolved app state before chatting")

	if err := fl.Parse(args); err != nil {
		return err
	}

	// Get the prompt text if it's coming from a file
	if filepath.Ext(system) == ".txt" {
		bytes, err := os.ReadFile(system)
		if err != nil {
			return err
		}

		system = string(bytes)
	}

	app.systemPrompt = system
	app.model = model
	app.images = images
	app.docs = docs
	app.timeout = timeout
	app.maxTurns = maxTurns
	app.verbose = verbose

	return nil
}

func (app *env) run(stdin io.Reader, stdout io.Writer) error {
	reader := bufio.NewReader(stdin)

	provider, err := chooseProvider(reader, stdout)
	if err != nil {
		return err
	}

	cfg, err := configFromEnv(provider, app.model)
	if err != nil {
		return err
	}
	app.config = cfg

	client := newClient(cfg, app.timeout)

	systemPrompt := app.systemPrompt
	if len(app.docs) > 0 {
		docText, err := loadDocuments(app.docs)
		if err != nil {
			return err
		}

		systemPrompt = strings.TrimSpace(systemPrompt + "\n\n" + wrapInXMLTags(docText, "document"))
	}

	app.session = NewSession(client, systemPrompt, app.maxTurns)

	if len(app.images) > 0 {
		content, err := loadAttachments(provider, app.images)
		if err != nil {
			return err
		}

		app.session.Attach(content...)
	}

	if app.verbose {
		spew.Fdump(os.Stderr, app)
	}

	fmt.Fprintln(stdout, dimStyle.Render(fmt.Sprintf(
		"Chatting with %s (%s). An empty line, exit, or quit ends the session.",
		provider, client.Model())))

	if err := app.runLoop(reader, stdout); err != nil {
		return err
	}

	printTranscript(stdout, app.session.History())

	return nil
}

// runLoop is the read-prompt-respond cycle. A failed exchange is reported and
// the loop keeps accepting input; the user's last message stays in history.
func (app *env) runLoop(reader *bufio.Reader, w io.Writer) error {
	for {
		fmt.Fprint(w, promptStyle.Render("You: "))

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			return nil
		}
		switch strings.ToLower(input) {
		case "exit", "quit":
			return nil
		}

		answer, err := app.session.User(context.Background(), input)
		if err != nil {
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("error: %v", err)))
			continue
		}

		fmt.Fprintln(w, answerStyle.Render("AI:"))
		fmt.Fprintln(w, renderMarkdown(answer))
	}
}

func printTranscript(w io.Writer, history []wire.Message) {
	if len(history) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, dimStyle.Render("Conversation history:"))
	for _, msg := range history {
		fmt.Fprintf(w, "%s: %s\n", msg.Role, msg.Text())
	}
}
