package cli

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/formerr"
	"github.com/reoring/formerr/source"
)

type resolveCommand struct {
	app *app

	Errors      string   `short:"e" long:"errors" description:"error tree file (JSON or YAML)" value-name:"FILE"`
	Field       string   `short:"f" long:"field" description:"field identifier, e.g. people[0].firstName"`
	Local       []string `short:"l" long:"local" description:"local field error (repeatable)" value-name:"MSG"`
	Record      string   `short:"r" long:"record" description:"field record file with name, meta.errors and form.errors" value-name:"FILE"`
	Output      string   `short:"o" long:"output" description:"output format" choice:"json" choice:"yaml"`
	FailOnError bool     `long:"fail-on-error" description:"exit with status 3 when the field has an error"`
}

func (c *resolveCommand) Execute([]string) error {
	field, res, err := c.resolve()
	if err != nil {
		return err
	}
	c.app.log.Debug("resolved", zap.String("field", field), zap.Bool("hasError", res.HasError))
	if err := c.app.write(toOutput(res), outputOr(c.Output, c.app.cfg.Output)); err != nil {
		return err
	}
	if c.FailOnError && res.HasError {
		return formerr.Issues{{Path: field, Code: formerr.CodeCustom, Message: res.Message}}
	}
	return nil
}

// resolve returns the resolved field's name with its result.
func (c *resolveCommand) resolve() (string, formerr.Result, error) {
	if c.Record != "" {
		if c.Errors != "" || c.Field != "" {
			return "", formerr.Result{}, usageError("--record cannot be combined with --errors or --field")
		}
		rec, err := source.ReadRecordFile(c.Record)
		if err != nil {
			return "", formerr.Result{}, err
		}
		name := ""
		if m, ok := rec.(map[string]any); ok {
			name, _ = m["name"].(string)
		}
		return name, c.app.resolver.ResolveRecord(rec), nil
	}
	if c.Field == "" {
		return "", formerr.Result{}, usageError("--field is required")
	}
	f := formerr.StaticField{FieldName: c.Field, Local: c.Local}
	if c.Errors != "" {
		snaps, err := source.ReadFile(c.Errors)
		if err != nil {
			return "", formerr.Result{}, err
		}
		c.app.log.Debug("snapshots loaded", zap.String("file", c.Errors), zap.Int("count", len(snaps)))
		f.Snapshots = snaps
	}
	return c.Field, c.app.resolver.Resolve(f), nil
}

type parseCommand struct {
	app *app

	Args struct {
		Field string `positional-arg-name:"FIELD" required:"yes"`
	} `positional-args:"yes"`
}

func (c *parseCommand) Execute([]string) error {
	p := formerr.ParsePath(c.Args.Field)
	if p.Segments == nil {
		p.Segments = []string{}
	}
	if p.ArrayMatches == nil {
		p.ArrayMatches = []formerr.ArrayMatch{}
	}
	return c.app.write(struct {
		formerr.Path
		DotNotation string `json:"dotNotation"`
	}{p, formerr.DotNotation(c.Args.Field)}, "json")
}

type formatCommand struct {
	app *app

	Issues string `short:"i" long:"issues" description:"issues file (JSON or YAML list of {path, code, message, params})" required:"yes" value-name:"FILE"`
	Field  string `short:"f" long:"field" description:"only include issues of this field identifier"`
	Layout string `long:"layout" description:"tree layout" choice:"nested" choice:"flat" choice:"dot"`
	Output string `short:"o" long:"output" description:"output format" choice:"json" choice:"yaml"`
}

func (c *formatCommand) Execute([]string) error {
	iss, err := readIssues(c.Issues)
	if err != nil {
		return err
	}
	if c.Field != "" {
		iss = iss.ForField(c.Field)
	}
	layout, err := formerr.ParseLayout(outputOr(c.Layout, c.app.cfg.Layout))
	if err != nil {
		return err
	}
	c.app.log.Debug("building tree", zap.Int("issues", len(iss)), zap.Stringer("layout", layout))
	return c.app.write(formerr.BuildTree(iss, layout), outputOr(c.Output, c.app.cfg.Output))
}

func readIssues(path string) (formerr.Issues, error) {
	f, err := source.FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var iss formerr.Issues
	if f == source.FormatYAML {
		err = yaml.Unmarshal(data, &iss)
	} else {
		err = json.Unmarshal(data, &iss)
	}
	if err != nil {
		return nil, fmt.Errorf("decode issues %s: %w", path, err)
	}
	return iss, nil
}

// resultOutput mirrors Result's JSON form for both encoders.
type resultOutput struct {
	HasError     bool    `json:"hasError" yaml:"hasError"`
	ErrorMessage *string `json:"errorMessage" yaml:"errorMessage"`
}

func toOutput(r formerr.Result) resultOutput {
	v := resultOutput{HasError: r.HasError}
	if r.HasError {
		v.ErrorMessage = &r.Message
	}
	return v
}

func outputOr(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func usageError(msg string) error {
	return &flags.Error{Type: flags.ErrRequired, Message: msg}
}
