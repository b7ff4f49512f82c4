package assetcfg

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Inspect and validate asset bundler descriptors"
	MsgCheckShort      = "Validate the descriptor"
	MsgShowShort       = "Print the effective descriptor"
	MsgDescribeShort   = "Explain the descriptor in prose"
	MsgCleanShort      = "Apply the module name cleaner to paths"
	MsgMatchShort      = "Show which bundle receives each path"
	MsgPlanShort       = "Show how source files would be bundled"
	MsgInitShort       = "Write a starter descriptor"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgInitWritten = "Wrote %s"

	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot         = "Project root searched for the descriptor"
	MsgFlagConfig       = "Descriptor file, instead of searching the project root"
	MsgFlagFormat       = "Output format: auto, term, text, json, yaml, toml or xml"
	MsgFlagStyles       = "YAML style sheet replacing the built-in terminal styles"
	MsgFlagNoUserConfig = "Ignore the user configuration file"
	MsgFlagSet          = "Override a descriptor key, e.g. --set paths.public=dist (repeatable)"
	MsgFlagDefaults     = "Use the built-in starter descriptor"
	MsgFlagCategory     = "Category of the paths, instead of inferring it"
	MsgFlagPrefix       = "Prefix to strip, instead of modules.nameCleaner (repeatable)"
	MsgFlagForce        = "Overwrite an existing file"
	MsgFlagUser         = "Write the commented user configuration instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimRight(msgPlanExampleRaw, "\n")

	//go:embed msgs/match-example.txt
	msgMatchExampleRaw string
	MsgMatchExample    = strings.TrimRight(msgMatchExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
