package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/tsfans/xbatis-to-sql/converter"
	"github.com/tsfans/xbatis-to-sql/parser"
	"github.com/tsfans/xbatis-to-sql/scanner"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	logFileName = "xbatis2sql.log"
)

var errHelp = errors.New("help requested")

type config struct {
	mode      string
	srcDir    string
	outputDir string
	verbose   bool
	check     bool
	manifest  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if errors.Is(err, errHelp) {
		printUsage(stdout)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return exitUsage
	}

	logger, closeLog := newLogger(stdout, cfg.verbose)
	defer closeLog()
	return extract(cfg, logger)
}

func parseArgs(args []string, stderr io.Writer) (cfg config, err error) {
	fs := flag.NewFlagSet("xbatis2sql", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {}

	var (
		ibatis   = fs.Bool("i", false, "try to parse iBATIS sqlmap files")
		ibatisL  = fs.Bool("ibatis", false, "try to parse iBATIS sqlmap files")
		mybatis  = fs.Bool("m", false, "try to parse MyBatis mapper files")
		mybatisL = fs.Bool("mybatis", false, "try to parse MyBatis mapper files")
		srcDir   = fs.String("s", "", "source directory")
		srcDirL  = fs.String("src", "", "source directory")
		outDir   = fs.String("o", "", "output directory")
		outDirL  = fs.String("output", "", "output directory")
		verbose  = fs.Bool("v", false, "debug logging")
		check    = fs.Bool("check", false, "syntax check every extracted statement")
		manifest = fs.Bool("manifest", false, "also write result.json")
		help     = fs.Bool("h", false, "print this help menu")
		helpL    = fs.Bool("help", false, "print this help menu")
	)
	if err = fs.Parse(args); err != nil {
		return
	}
	if *help || *helpL {
		err = errHelp
		return
	}

	// Coalesce short and long flags
	useIBatis := *ibatis || *ibatisL
	useMyBatis := *mybatis || *mybatisL
	cfg.srcDir = firstNonEmpty(*srcDir, *srcDirL)
	cfg.outputDir = firstNonEmpty(*outDir, *outDirL)
	cfg.verbose, cfg.check, cfg.manifest = *verbose, *check, *manifest

	// xbatis2sql [ibatis|mybatis] src_dir output_dir
	if !useIBatis && !useMyBatis && cfg.srcDir == "" && cfg.outputDir == "" && fs.NArg() == 3 {
		cfg.mode, cfg.srcDir, cfg.outputDir = fs.Arg(0), fs.Arg(1), fs.Arg(2)
		if _, err = parser.DialectByName(cfg.mode); err != nil {
			err = fmt.Errorf("not supported: %v", cfg.mode)
		}
		return
	}

	switch {
	case fs.NArg() > 0:
		err = fmt.Errorf("unexpected arguments: %v", fs.Args())
	case useIBatis && useMyBatis:
		err = errors.New("just support in mode: iBATIS or MyBatis, not both")
	case !useIBatis && !useMyBatis:
		err = errors.New("must choose in iBATIS mode or MyBatis mode")
	case cfg.srcDir == "":
		err = errors.New("must define the source directory")
	case cfg.outputDir == "":
		err = errors.New("must define the output directory")
	case useIBatis:
		cfg.mode = parser.DialectName_IBatis
	default:
		cfg.mode = parser.DialectName_MyBatis
	}
	return
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: xbatis2sql [-i|-m] -s SRC -o OUTPUT [options]
       xbatis2sql [ibatis|mybatis] SRC OUTPUT

Extract SQL statements from iBATIS sqlmap / MyBatis mapper files into OUTPUT/%v.

Options:
  -i, -ibatis     try to parse iBATIS sqlmap files
  -m, -mybatis    try to parse MyBatis mapper files
  -s, -src        source directory
  -o, -output     output directory
  -check          syntax check every extracted statement
  -manifest       also write OUTPUT/%v
  -v              debug logging
  -h, -help       print this help menu
`, converter.ScriptFileName, converter.ManifestFileName)
}

// 日志同时写到stdout和临时目录下的xbatis2sql.log
func newLogger(stdout io.Writer, verbose bool) (*log.Logger, func()) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	logFile := filepath.Join(os.TempDir(), logFileName)
	f, err := os.Create(logFile)
	if err != nil {
		logger.SetOutput(stdout)
		logger.Warnf("log only to stdout, create %v failed,err=[%v]", logFile, err)
		return logger, func() {}
	}
	logger.SetOutput(io.MultiWriter(stdout, f))
	logger.Infof("log inited success, will output to stdout and %v", logFile)
	return logger, func() { _ = f.Close() }
}

func extract(cfg config, logger log.FieldLogger) int {
	dialect, err := parser.DialectByName(cfg.mode)
	if err != nil {
		logger.Error(err)
		return exitUsage
	}
	logger.Infof("try to parse files in %v, fetch sql to %v", cfg.srcDir, cfg.outputDir)

	candidates, err := scanner.Scan(cfg.srcDir, logger)
	if err != nil {
		logger.Error(err)
		return exitError
	}

	var opts []parser.Option
	if cfg.check {
		opts = append(opts, parser.WithChecker(parser.NewChecker()))
	}
	mapperParser := parser.NewMapperParser(dialect, logger, opts...)

	var (
		files      []*parser.MapperFile
		statements int
	)
	for _, path := range candidates {
		if !mapperParser.Detect(path) {
			continue
		}
		logger.Info(path)
		file, err := mapperParser.Parse(path)
		if file == nil {
			logger.WithField("file", path).Debugf("skip file,err=[%v]", err)
			continue
		}
		files = append(files, file)
		statements += len(file.Statements)
	}

	converters := []converter.MapperConverter{converter.NewSQLScriptConverter(dialect)}
	if cfg.manifest {
		converters = append(converters, converter.NewManifestConverter(dialect))
	}
	for _, c := range converters {
		out, err := c.Convert(files)
		if err != nil {
			logger.Error(err)
			return exitError
		}
		path, err := converter.Save(cfg.outputDir, out)
		if err != nil {
			logger.Errorf("try to write sql to %v failed,err=[%v]", cfg.outputDir, err)
			return exitError
		}
		logger.Infof("write to %v, files: %v, statements: %v", path, len(files), statements)
	}
	return exitOK
}
