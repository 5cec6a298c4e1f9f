package aggregate

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/ignore-aggregator/internal/discovery"
	"github.com/temirov/ignore-aggregator/internal/filesystem"
	"github.com/temirov/ignore-aggregator/internal/rereference"
)

const (
	provenancePrefixConstant               = "# "
	lineTerminatorConstant                 = "\n"
	scanningMessageConstant                = "Scanning for .gitignore files"
	foundMessageTemplateConstant           = "Found %d git ignore files"
	ignoreFileProgressTemplateConstant     = "%s\n"
	fileSystemMissingMessageConstant       = "filesystem not configured"
	discoveryFailureTemplateConstant       = "ignore file discovery failed: %w"
	outputCreationFailureTemplateConstant  = "failed to create output file %s: %w"
	outputWriteFailureTemplateConstant     = "failed to write output file %s: %w"
	outputCloseFailureTemplateConstant     = "failed to close output file %s: %w"
	dryRunOutputLabelConstant              = "standard output"
	logMessageAggregationStartedConstant   = "Aggregation started"
	logMessageAggregationCompletedConstant = "Aggregation completed"
	logMessageAggregationFailedConstant    = "Aggregation failed, partial output left in place"
	logMessageDryRunFailedConstant         = "Aggregation preview failed"
	logMessageIgnoreFileAggregatedConstant = "Ignore file aggregated"
	logFieldReferenceDirectoryConstant     = "reference_directory"
	logFieldOutputPathConstant             = "output_path"
	logFieldDryRunConstant                 = "dry_run"
	logFieldIgnoreFileCountConstant        = "ignore_file_count"
	logFieldRuleCountConstant              = "rule_count"
	logFieldIgnoreFilePathConstant         = "ignore_file"
)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// IgnoreFileDiscoverer locates ignore files beneath a reference directory.
type IgnoreFileDiscoverer interface {
	DiscoverIgnoreFiles(rootDirectory string) ([]string, error)
}

// PatternRereferencer rewrites the rules of a single ignore file.
type PatternRereferencer interface {
	Rereference(ignoreFilePath string) ([]string, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	FileSystem   filesystem.FileSystem
	Discoverer   IgnoreFileDiscoverer
	Rereferencer PatternRereferencer
	Logger       *zap.Logger
}

// Options configure a single aggregation run.
type Options struct {
	ReferenceDirectory string
	OutputPath         string
	DryRun             bool
	// ProgressWriter receives operator-facing progress lines; nil discards them.
	ProgressWriter io.Writer
	// DryRunWriter receives the aggregated content when DryRun is set.
	DryRunWriter io.Writer
}

// IgnoreFileSummary describes one aggregated source file.
type IgnoreFileSummary struct {
	Path      string
	RuleCount int
}

// Result captures the outcome of an aggregation run.
type Result struct {
	OutputPath  string
	DryRun      bool
	IgnoreFiles []IgnoreFileSummary
}

// RuleCount totals the rewritten rules written for every source file.
func (result Result) RuleCount() int {
	total := 0
	for _, ignoreFile := range result.IgnoreFiles {
		total += ignoreFile.RuleCount
	}
	return total
}

// Service drives validation, discovery, rewriting, and output generation.
type Service struct {
	fileSystem   filesystem.FileSystem
	discoverer   IgnoreFileDiscoverer
	rereferencer PatternRereferencer
	logger       *zap.Logger
}

// NewService constructs a Service, defaulting the discoverer and rereferencer to filesystem-backed implementations.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	discoverer := dependencies.Discoverer
	if discoverer == nil {
		discoverer = discovery.NewFilesystemIgnoreFileDiscoverer(dependencies.FileSystem, logger)
	}

	rereferencer := dependencies.Rereferencer
	if rereferencer == nil {
		rereferencer = rereference.NewRereferencer(dependencies.FileSystem)
	}

	return &Service{
		fileSystem:   dependencies.FileSystem,
		discoverer:   discoverer,
		rereferencer: rereferencer,
		logger:       logger,
	}, nil
}

// Aggregate validates the options, then writes every discovered ignore file's rules into one new file.
// Errors after the output file was created abort the run and leave the partial file on disk.
func (service *Service) Aggregate(options Options) (Result, error) {
	if validationError := ValidateInputs(service.fileSystem, options.ReferenceDirectory, options.OutputPath); validationError != nil {
		return Result{}, validationError
	}

	progressWriter := options.ProgressWriter
	if progressWriter == nil {
		progressWriter = io.Discard
	}

	service.logger.Info(
		logMessageAggregationStartedConstant,
		zap.String(logFieldReferenceDirectoryConstant, options.ReferenceDirectory),
		zap.String(logFieldOutputPathConstant, options.OutputPath),
		zap.Bool(logFieldDryRunConstant, options.DryRun),
	)

	fmt.Fprintln(progressWriter, scanningMessageConstant)
	ignoreFilePaths, discoveryError := service.discoverer.DiscoverIgnoreFiles(options.ReferenceDirectory)
	if discoveryError != nil {
		return Result{}, fmt.Errorf(discoveryFailureTemplateConstant, discoveryError)
	}

	outputLabel := options.OutputPath
	outputWriter, closeOutput, openError := service.openOutput(options)
	if openError != nil {
		return Result{}, openError
	}
	if options.DryRun {
		outputLabel = dryRunOutputLabelConstant
	}

	fmt.Fprintf(progressWriter, foundMessageTemplateConstant+lineTerminatorConstant, len(ignoreFilePaths))

	result := Result{OutputPath: options.OutputPath, DryRun: options.DryRun}
	bufferedWriter := bufio.NewWriter(outputWriter)

	for _, ignoreFilePath := range ignoreFilePaths {
		fmt.Fprintf(progressWriter, ignoreFileProgressTemplateConstant, ignoreFilePath)

		summary, aggregationError := service.aggregateIgnoreFile(bufferedWriter, ignoreFilePath, outputLabel)
		if aggregationError != nil {
			_ = bufferedWriter.Flush()
			_ = closeOutput()
			service.logAggregationFailure(options, aggregationError)
			return result, aggregationError
		}
		result.IgnoreFiles = append(result.IgnoreFiles, summary)
	}

	if flushError := bufferedWriter.Flush(); flushError != nil {
		_ = closeOutput()
		wrappedError := fmt.Errorf(outputWriteFailureTemplateConstant, outputLabel, flushError)
		service.logAggregationFailure(options, wrappedError)
		return result, wrappedError
	}
	if closeError := closeOutput(); closeError != nil {
		return result, fmt.Errorf(outputCloseFailureTemplateConstant, outputLabel, closeError)
	}

	service.logger.Info(
		logMessageAggregationCompletedConstant,
		zap.String(logFieldOutputPathConstant, outputLabel),
		zap.Int(logFieldIgnoreFileCountConstant, len(result.IgnoreFiles)),
		zap.Int(logFieldRuleCountConstant, result.RuleCount()),
	)

	return result, nil
}

func (service *Service) openOutput(options Options) (io.Writer, func() error, error) {
	if options.DryRun {
		dryRunWriter := options.DryRunWriter
		if dryRunWriter == nil {
			dryRunWriter = io.Discard
		}
		return dryRunWriter, func() error { return nil }, nil
	}

	outputFile, createError := service.fileSystem.CreateExclusive(options.OutputPath)
	if createError != nil {
		return nil, nil, fmt.Errorf(outputCreationFailureTemplateConstant, options.OutputPath, createError)
	}
	return outputFile, outputFile.Close, nil
}

func (service *Service) aggregateIgnoreFile(writer *bufio.Writer, ignoreFilePath string, outputLabel string) (IgnoreFileSummary, error) {
	if writeError := writeLine(writer, provenancePrefixConstant+ignoreFilePath); writeError != nil {
		return IgnoreFileSummary{}, fmt.Errorf(outputWriteFailureTemplateConstant, outputLabel, writeError)
	}

	rewrittenPatterns, rereferenceError := service.rereferencer.Rereference(ignoreFilePath)
	if rereferenceError != nil {
		return IgnoreFileSummary{}, rereferenceError
	}

	for _, rewrittenPattern := range rewrittenPatterns {
		if writeError := writeLine(writer, rewrittenPattern); writeError != nil {
			return IgnoreFileSummary{}, fmt.Errorf(outputWriteFailureTemplateConstant, outputLabel, writeError)
		}
	}

	service.logger.Debug(
		logMessageIgnoreFileAggregatedConstant,
		zap.String(logFieldIgnoreFilePathConstant, ignoreFilePath),
		zap.Int(logFieldRuleCountConstant, len(rewrittenPatterns)),
	)

	return IgnoreFileSummary{Path: ignoreFilePath, RuleCount: len(rewrittenPatterns)}, nil
}

func (service *Service) logAggregationFailure(options Options, failure error) {
	message := logMessageAggregationFailedConstant
	if options.DryRun {
		message = logMessageDryRunFailedConstant
	}
	service.logger.Error(
		message,
		zap.String(logFieldOutputPathConstant, options.OutputPath),
		zap.Error(failure),
	)
}

func writeLine(writer *bufio.Writer, line string) error {
	if _, writeError := writer.WriteString(line); writeError != nil {
		return writeError
	}
	_, writeError := writer.WriteString(lineTerminatorConstant)
	return writeError
}
