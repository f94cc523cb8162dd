package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Dir is a directory location (s3://, s3n:// or hdfs://) that always ends in a
// single slash. s3-dist-cp treats "run=x" and "run=x/" differently, so every
// directory passed to a step goes through JoinDir.
type Dir string

// JoinDir joins a root such as "s3://bucket" or "hdfs:///local/snowplow" with
// path segments and terminates the result with a slash
func JoinDir(root string, parts ...string) Dir {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(root, "/"))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		sb.WriteString("/")
		sb.WriteString(p)
	}
	sb.WriteString("/")
	return Dir(sb.String())
}

func (d Dir) String() string { return string(d) }

// Glob matches everything directly under d
func (d Dir) Glob() string { return string(d) + "*" }

// Args is a typed argument record for one step
type Args interface {
	Strings() []string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("dir", isDir)
	_ = v.RegisterValidation("regexp", isRegexp)
	return v
}

func isDir(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !strings.HasPrefix(s, "s3://") && !strings.HasPrefix(s, "s3n://") && !strings.HasPrefix(s, "hdfs://") {
		return false
	}
	return strings.HasSuffix(s, "/") && !strings.HasSuffix(s, "//")
}

func isRegexp(fl validator.FieldLevel) bool {
	_, err := regexp.Compile(fl.Field().String())
	return err == nil
}

// render validates a record and serializes it
func render(a Args) ([]string, error) {
	if err := validate.Struct(a); err != nil {
		return nil, err
	}
	return a.Strings(), nil
}

// ScriptArgs runs a script through script-runner.jar
type ScriptArgs struct {
	Script string   `validate:"required"`
	Args   []string `validate:"dive,required"`
}

func (a ScriptArgs) Strings() []string {
	return append([]string{a.Script}, a.Args...)
}

// DistCpArgs is one s3-dist-cp invocation
type DistCpArgs struct {
	Src             Dir    `validate:"required,dir"`
	Dest            Dir    `validate:"required,dir"`
	SrcPattern      string `validate:"omitempty,regexp"`
	S3Endpoint      string `validate:"required,hostname_rfc1123"`
	OutputCodec     string `validate:"omitempty,oneof=gzip gz lzo snappy none"`
	DeleteOnSuccess bool
}

func (a DistCpArgs) Strings() []string {
	args := []string{"--src", a.Src.String(), "--dest", a.Dest.String()}
	if a.SrcPattern != "" {
		args = append(args, "--srcPattern", a.SrcPattern)
	}
	args = append(args, "--s3Endpoint", a.S3Endpoint)
	if a.OutputCodec != "" {
		args = append(args, "--outputCodec", a.OutputCodec)
	}
	if a.DeleteOnSuccess {
		args = append(args, "--deleteOnSuccess")
	}
	return args
}

// SparkSubmit is the spark-submit prefix shared by the Spark jobs
type SparkSubmit struct {
	Class      string `validate:"required"`
	Jar        string `validate:"required"`
	Master     string `validate:"required"`
	DeployMode string `validate:"oneof=cluster client"`
}

func (s SparkSubmit) strings() []string {
	return []string{
		"spark-submit",
		"--class", s.Class,
		"--master", s.Master,
		"--deploy-mode", s.DeployMode,
		s.Jar,
	}
}

// EnrichArgs runs the enrichment job over the raw events
type EnrichArgs struct {
	Submit       SparkSubmit
	InputFormat  string `validate:"required"`
	ETLTimestamp int64  `validate:"gt=0"`
	IgluConfig   string `validate:"required,base64"`
	Enrichments  string `validate:"required,base64"`
	Input        string `validate:"required,endswith=/*"`
	Output       Dir    `validate:"required,dir"`
	Bad          Dir    `validate:"required,dir"`
}

func (a EnrichArgs) Strings() []string {
	return append(a.Submit.strings(),
		"--input-format", a.InputFormat,
		"--etl-timestamp", strconv.FormatInt(a.ETLTimestamp, 10),
		"--iglu-config", a.IgluConfig,
		"--enrichments", a.Enrichments,
		"--input-folder", a.Input,
		"--output-folder", a.Output.String(),
		"--bad-folder", a.Bad.String(),
	)
}

// ShredArgs runs the shredding job over the enriched events
type ShredArgs struct {
	Submit     SparkSubmit
	IgluConfig string `validate:"required,base64"`
	Input      string `validate:"required,endswith=/*"`
	Output     Dir    `validate:"required,dir"`
	Bad        Dir    `validate:"required,dir"`
}

func (a ShredArgs) Strings() []string {
	return append(a.Submit.strings(),
		"--iglu-config", a.IgluConfig,
		"--input-folder", a.Input,
		"--output-folder", a.Output.String(),
		"--bad-folder", a.Bad.String(),
	)
}

// LoaderArgs runs the storage loader against the shredded output
type LoaderArgs struct {
	Config   string `validate:"required,base64"`
	Resolver string `validate:"required,base64"`
	LogKey   string `validate:"required,startswith=s3://"`
	Target   string `validate:"required,base64"`
}

func (a LoaderArgs) Strings() []string {
	return []string{
		"--config", a.Config,
		"--resolver", a.Resolver,
		"--logkey", a.LogKey,
		"--target", a.Target,
	}
}

// argError names the first offending field of a failed validation
func argError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		value := fmt.Sprint(fe.Value())
		if len(value) > 64 {
			value = value[:64] + "..."
		}
		return fmt.Errorf("field %s failed %q check (value %q)", fe.Namespace(), fe.Tag(), value)
	}
	return err
}
