package match

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/temirov/ignore-aggregator/internal/filesystem"
)

const (
	aggregatedFileRequiredMessageConstant = "aggregated file path must be provided"
	candidatePathsRequiredMessageConstant = "at least one path to check must be provided"
	aggregatedOpenFailureTemplateConstant = "failed to open aggregated file %s: %w"
	aggregatedReadFailureTemplateConstant = "failed to read aggregated file %s: %w"
	logMessageAggregatedCompiledConstant  = "Aggregated rules compiled"
	logFieldAggregatedFileConstant        = "aggregated_file"
	logFieldLineCountConstant             = "line_count"
	maximumLineLengthBytesConstant        = 1024 * 1024
	initialLineBufferBytesConstant        = 64 * 1024
)

// ErrAggregatedFileRequired indicates the aggregated file option was empty.
var ErrAggregatedFileRequired = errors.New(aggregatedFileRequiredMessageConstant)

// ErrCandidatePathsRequired indicates no paths were supplied for matching.
var ErrCandidatePathsRequired = errors.New(candidatePathsRequiredMessageConstant)

// Result describes whether a path is ignored and by which aggregated line.
type Result struct {
	Path        string
	Ignored     bool
	LineNumber  int
	MatchedRule string
}

// Service compiles aggregated ignore files and evaluates paths against them.
type Service struct {
	fileSystem filesystem.FileSystem
	logger     *zap.Logger
}

// NewService constructs a Service reading through the provided filesystem.
func NewService(fileSystem filesystem.FileSystem, logger *zap.Logger) *Service {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fileSystem: fileSystem, logger: logger}
}

// Match evaluates every candidate path against the rules of the aggregated file.
// The last matching rule decides, so a later negated rule re-includes a path.
func (service *Service) Match(aggregatedFilePath string, candidatePaths []string) ([]Result, error) {
	if len(strings.TrimSpace(aggregatedFilePath)) == 0 {
		return nil, ErrAggregatedFileRequired
	}
	if len(candidatePaths) == 0 {
		return nil, ErrCandidatePathsRequired
	}

	lines, readError := service.readLines(aggregatedFilePath)
	if readError != nil {
		return nil, readError
	}

	matcher := ignore.CompileIgnoreLines(lines...)
	service.logger.Debug(
		logMessageAggregatedCompiledConstant,
		zap.String(logFieldAggregatedFileConstant, aggregatedFilePath),
		zap.Int(logFieldLineCountConstant, len(lines)),
	)

	results := make([]Result, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		ignored, matchedPattern := matcher.MatchesPathHow(candidatePath)
		result := Result{Path: candidatePath, Ignored: ignored}
		if ignored && matchedPattern != nil {
			result.LineNumber = matchedPattern.LineNo
			result.MatchedRule = matchedPattern.Line
		}
		results = append(results, result)
	}
	return results, nil
}

func (service *Service) readLines(aggregatedFilePath string) ([]string, error) {
	reader, openError := service.fileSystem.Open(aggregatedFilePath)
	if openError != nil {
		return nil, fmt.Errorf(aggregatedOpenFailureTemplateConstant, aggregatedFilePath, openError)
	}
	defer reader.Close()

	lineScanner := bufio.NewScanner(reader)
	lineScanner.Buffer(make([]byte, 0, initialLineBufferBytesConstant), maximumLineLengthBytesConstant)

	var lines []string
	for lineScanner.Scan() {
		lines = append(lines, lineScanner.Text())
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, fmt.Errorf(aggregatedReadFailureTemplateConstant, aggregatedFilePath, scanError)
	}
	return lines, nil
}
