package pipeline

import (
	"fmt"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

// StageSlots is the slot count of the full production pipeline. Step names
// keep it ("(3/20) ...") so recovery runs line up with regular runs in the
// EMR console; the recovery pass fills the first len(stages) slots.
const StageSlots = 20

const (
	patternAll     = ".+"
	patternParts   = ".*part-.*"
	patternSuccess = ".*_SUCCESS"
	codecGzip      = "gzip"
)

// stage is one row of the recovery pipeline
type stage struct {
	title     func(model.Layout) string
	onFailure model.FailureAction
	runs      model.ExecutableKind
	args      func(r *run) Args
}

func titled(s string) func(model.Layout) string {
	return func(model.Layout) string { return s }
}

// stages is the recovery pipeline, in execution order. Every stage reads the
// location the previous one wrote, so the order is fixed.
var stages = []stage{
	{
		title:     titled("Setup Hadoop Debugging"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.ScriptRunner,
		args: func(r *run) Args {
			return ScriptArgs{Script: r.layout.Artifacts.StatePusher}
		},
	},
	{
		// archiving what a previous attempt left behind is best effort
		title:     titled("archiving recovered data"),
		onFailure: model.ActionContinue,
		runs:      model.DistCp,
		args: func(r *run) Args {
			return r.distCp(r.recovered(), r.processed("processed", "archive", "run="+r.id.BatchID))
		},
	},
	{
		title: func(l model.Layout) string {
			return fmt.Sprintf("%s/processed/recovered -> etl/processing ( staging )", l.ProcessedBucket)
		},
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.recovered(), r.staging())
			a.SrcPattern = patternAll
			a.DeleteOnSuccess = true
			return a
		},
	},
	{
		title:     titled("etl/processing (staging) -> Raw HDFS"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			return r.distCp(r.staging(), r.hdfs("raw-events"))
		},
	},
	{
		title:     titled("Elasticity Spark Step: Enrich Raw Events"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.CommandRunner,
		args: func(r *run) Args {
			return EnrichArgs{
				Submit:       r.sparkSubmit(r.layout.Artifacts.EnrichClass, r.layout.Artifacts.EnrichJar),
				InputFormat:  r.layout.InputFormat,
				ETLTimestamp: r.id.EpochMillis,
				IgluConfig:   r.payloads.resolver,
				Enrichments:  r.payloads.enrichments,
				Input:        r.hdfs("raw-events").Glob(),
				Output:       r.hdfs("enriched-events"),
				Bad:          r.runDir("enriched", "bad"),
			}
		},
	},
	{
		title:     titled("Elasticity S3DistCp Step: Enriched HDFS -> S3"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.hdfs("enriched-events"), r.runDir("enriched", "good"))
			a.SrcPattern = patternParts
			a.OutputCodec = codecGzip
			return a
		},
	},
	{
		// the marker does not match the part- pattern of the previous stage
		title:     titled("Elasticity S3DistCp Step: Enriched HDFS _SUCCESS -> S3"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.hdfs("enriched-events"), r.runDir("enriched", "good"))
			a.SrcPattern = patternSuccess
			return a
		},
	},
	{
		title:     titled("Elasticity Custom Jar Step: Empty Raw HDFS"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.ScriptRunner,
		args: func(r *run) Args {
			return ScriptArgs{Script: r.layout.Artifacts.HDFSRemove, Args: []string{r.hdfs("raw-events").String()}}
		},
	},
	{
		title:     titled("Elasticity Spark Step: Shred Enriched Events"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.CommandRunner,
		args: func(r *run) Args {
			return ShredArgs{
				Submit:     r.sparkSubmit(r.layout.Artifacts.ShredClass, r.layout.Artifacts.ShredJar),
				IgluConfig: r.payloads.resolver,
				Input:      r.hdfs("enriched-events").Glob(),
				Output:     r.hdfs("shredded-events"),
				Bad:        r.runDir("shredded", "bad"),
			}
		},
	},
	{
		title:     titled("Elasticity S3DistCp Step: Shredded HDFS -> S3"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.hdfs("shredded-events"), r.runDir("shredded", "good"))
			a.SrcPattern = patternParts
			a.OutputCodec = codecGzip
			a.DeleteOnSuccess = true
			return a
		},
	},
	{
		title:     titled("Elasticity S3DistCp Step: Shredded HDFS _SUCCESS -> S3"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.hdfs("shredded-events"), r.runDir("shredded", "good"))
			a.SrcPattern = patternSuccess
			a.DeleteOnSuccess = true
			return a
		},
	},
	{
		title:     titled("Elasticity S3DistCp Step: Raw Staging S3 -> Raw Archive S3"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.staging(), r.output("spark", "archive", "run="+r.id.RunID))
			a.DeleteOnSuccess = true
			return a
		},
	},
	{
		title: func(l model.Layout) string {
			return fmt.Sprintf("Elasticity Custom Jar Step: Load %s Storage Target", l.StorageTarget)
		},
		onFailure: model.ActionTerminateCluster,
		runs:      model.CustomJar,
		args: func(r *run) Args {
			return LoaderArgs{
				Config:   r.payloads.runConfig,
				Resolver: r.payloads.resolver,
				LogKey:   r.logKey(),
				Target:   r.payloads.target,
			}
		},
	},
	{
		title:     titled("Elasticity S3DistCp Step: Enriched S3 -> Enriched Archive S3"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.runDir("enriched", "good"), r.runDir("enriched", "archive"))
			a.DeleteOnSuccess = true
			return a
		},
	},
	{
		title:     titled("Elasticity S3DistCp Step: Shredded S3 -> Shredded Archive S3"),
		onFailure: model.ActionTerminateCluster,
		runs:      model.DistCp,
		args: func(r *run) Args {
			a := r.distCp(r.runDir("shredded", "good"), r.runDir("shredded", "archive"))
			a.DeleteOnSuccess = true
			return a
		},
	},
}

// StageCount is the number of steps Build returns
func StageCount() int {
	return len(stages)
}

// payloads are the encoded configuration blobs a run needs
type payloads struct {
	resolver    string
	enrichments string
	runConfig   string
	target      string
}

// run carries everything the argument templates read
type run struct {
	id       model.RunIdentity
	layout   model.Layout
	payloads payloads
	logID    string
}

func (r *run) processed(parts ...string) Dir {
	return JoinDir(r.layout.ProcessedBucket, parts...)
}

func (r *run) output(parts ...string) Dir {
	return JoinDir(r.layout.OutputBucket, parts...)
}

func (r *run) hdfs(parts ...string) Dir {
	return JoinDir(r.layout.HDFSRoot, parts...)
}

// recovered is where the failed batch was quarantined
func (r *run) recovered() Dir {
	return r.processed("processed", "recovered", "run="+r.id.BatchID)
}

func (r *run) staging() Dir {
	return r.processed("etl", "processing")
}

// runDir is spark/<job>/<kind>/run=<runId>/ in the output bucket
func (r *run) runDir(job, kind string) Dir {
	return r.output("spark", job, kind, "run="+r.id.RunID)
}

func (r *run) logKey() string {
	return r.output("spark_etl_logs", "rdb-loader", r.id.RunID).String() + r.logID
}

func (r *run) distCp(src, dest Dir) DistCpArgs {
	return DistCpArgs{Src: src, Dest: dest, S3Endpoint: r.layout.S3Endpoint}
}

func (r *run) sparkSubmit(class, jar string) SparkSubmit {
	return SparkSubmit{Class: class, Jar: jar, Master: "yarn", DeployMode: "cluster"}
}

func executable(kind model.ExecutableKind, a model.Artifacts) model.Executable {
	jar := ""
	switch kind {
	case model.ScriptRunner:
		jar = a.ScriptRunner
	case model.DistCp:
		jar = a.DistCp
	case model.CommandRunner:
		jar = a.CommandRunner
	case model.CustomJar:
		jar = a.LoaderJar
	}
	return model.Executable{Kind: kind, Jar: jar}
}
