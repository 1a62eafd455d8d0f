package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"ippvm/source"
	"ippvm/stream"
	"ippvm/task"
	"ippvm/trace"
	"ippvm/types"
	"ippvm/vm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command; it returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ippvm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	sourcePath := fs.String("source", "", "Program file; read from stdin when empty")
	inputPath := fs.String("input", "", "File with values for READ; read from stdin when empty")
	formatName := fs.String("format", "auto", "Program format: auto, xml or text")
	interactive := fs.Bool("interactive", false, "Prompt for READ values on the terminal")

	// Trace flags
	traceEnabled := fs.Bool("trace", false, "Enable execution tracing")
	traceFilter := fs.String("trace-filter", "", "Trace filter pattern (glob over opcodes, e.g. 'JUMP*,CALL')")

	// Reporting flags
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	statsPath := fs.String("stats", "", "Write execution statistics to this file")
	statsItems := fs.String("stats-items", "insts,vars", "Statistics to write, in order (insts, vars, loc, comments, labels, jumps, fwjumps, backjumps, badjumps)")

	// Inspection flags
	dump := fs.Bool("dump", false, "List the decoded program and labels instead of running it")
	emitXML := fs.Bool("emit-xml", false, "Write the program as XML source instead of running it")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return types.E_PARAM.ExitCode()
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "invalid log level %q\n", *logLevel)
		return types.E_PARAM.ExitCode()
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()

	if fs.NArg() > 0 {
		logger.Error().Strs("args", fs.Args()).Msg("unexpected arguments")
		return types.E_PARAM.ExitCode()
	}
	format, err := source.ParseFormat(*formatName)
	if err != nil {
		logger.Error().Err(err).Msg("invalid --format")
		return types.E_PARAM.ExitCode()
	}
	if *sourcePath == "" && *inputPath == "" && !*interactive && !*dump && !*emitXML {
		logger.Error().Msg("at least one of --source and --input is required")
		return types.E_PARAM.ExitCode()
	}
	items := splitList(*statsItems)
	for _, item := range items {
		if !task.IsStat(item) {
			logger.Error().Str("item", item).Msg("unknown statistic")
			return types.E_PARAM.ExitCode()
		}
	}

	prog, err := loadProgram(*sourcePath, stdin, format)
	if err != nil {
		logger.Error().Err(err).Str("source", *sourcePath).Msg("cannot load program")
		return types.CodeOf(err).ExitCode()
	}
	logger.Debug().Int("instructions", prog.Len()).Int("labels", len(prog.Labels)).Msg("program loaded")

	if *dump {
		dumpProgram(stdout, prog)
		return 0
	}
	if *emitXML {
		if err := source.WriteXML(stdout, prog); err != nil {
			logger.Error().Err(err).Msg("cannot write XML")
			return types.CodeOf(err).ExitCode()
		}
		return 0
	}

	in, closeInput, err := openInput(*inputPath, *interactive, *sourcePath == "", stdin)
	if err != nil {
		logger.Error().Err(err).Str("input", *inputPath).Msg("cannot open input")
		return types.CodeOf(err).ExitCode()
	}
	defer closeInput()

	if *traceEnabled {
		filters := splitList(*traceFilter)
		trace.Init(true, filters, stderr)
		logger.Info().Strs("filters", filters).Msg("tracing enabled")
	} else {
		trace.Init(false, nil, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := stream.NewWriter(stdout)
	machine := vm.NewVM(prog, in, out, stream.NewUnbuffered(stderr))
	machine.TrackVars = *statsPath != ""

	code, runErr := machine.Run(ctx)
	if err := out.Flush(); err != nil {
		logger.Error().Err(err).Msg("cannot write standard output")
		if runErr == nil {
			code = types.E_OUTFILE.ExitCode()
		}
	}

	report := machine.Report(code)
	if runErr != nil {
		logger.Error().Err(runErr).Int("exit", code).Int64("executed", report.Executed).Msg("program failed")
		for _, line := range task.FormatTraceback(report.CallStack, runErr) {
			fmt.Fprintln(stderr, line)
		}
	} else {
		logger.Debug().Int("exit", code).Int64("executed", report.Executed).Msg("program finished")
	}

	if *statsPath != "" {
		if err := writeStats(*statsPath, report, items); err != nil {
			logger.Error().Err(err).Str("stats", *statsPath).Msg("cannot write statistics")
			return types.E_OUTFILE.ExitCode()
		}
	}

	return code
}

func loadProgram(path string, stdin io.Reader, format source.Format) (*vm.Program, error) {
	if path == "" {
		return source.Load(stdin, format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewError(types.E_INFILE, "%v", err)
	}
	defer f.Close()
	return source.Load(f, format)
}

// openInput picks the READ source. Standard input is used only when the
// program did not come from it.
func openInput(path string, interactive, sourceFromStdin bool, stdin io.Reader) (vm.Input, func(), error) {
	if interactive {
		pr := stream.NewPromptReader()
		return pr, func() { pr.Close() }, nil
	}
	if path == "" {
		if sourceFromStdin {
			return nil, func() {}, types.NewError(types.E_PARAM, "program and input cannot both come from stdin")
		}
		return stream.NewLineReader(stdin), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, types.NewError(types.E_INFILE, "%v", err)
	}
	return stream.NewLineReader(f), func() { f.Close() }, nil
}

func writeStats(path string, report *task.Report, items []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteStats(f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// dumpProgram lists the decoded program in execution order
func dumpProgram(w io.Writer, prog *vm.Program) {
	fmt.Fprintf(w, "=== Program (%d instructions, %d labels) ===\n", prog.Len(), len(prog.Labels))
	for i, ins := range prog.Code {
		if ins.Op == vm.OP_LABEL {
			fmt.Fprintf(w, "%4d: %s:\n", i, ins.Args[0].Name)
			continue
		}
		fmt.Fprintf(w, "%4d:     %-40s # order %d\n", i, ins.String(), ins.Order)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
