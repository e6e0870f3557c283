package webhookgrp

import (
	"fmt"

	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/foundation/sequence"
)

const welcomeReply = "Welcome to Bio-Estate. Please send a Mango photo or a DNA sequence to begin."

const failedReply = "⚠️ We could not secure your file. Please send it again."

func fileReply(report scan.FileReport) string {
	return fmt.Sprintf("✅ File Secured!\nBlock: %s\nResult: %s", report.Block.Short(), analysisText(report.Analysis))
}

func textReply(report scan.TextReport) string {
	risk := "✅ LOW RISK"
	if report.Risk == sequence.RiskHigh {
		risk = "⚠️ HIGH RISK"
	}

	return fmt.Sprintf("🧪 DNA Text Analyzed!\nResult: %s (%.1f%% GC)\nBlock: %s", risk, report.GC, report.Block.Short())
}

func analysisText(a sequence.Analysis) string {
	switch a.Kind {
	case sequence.KindImage:
		return "🖼️ Image logged. Visual diagnostics pending."

	case sequence.KindEmpty:
		return "Unknown (Empty)"

	case sequence.KindSequence:
		risk := "✅ LOW"
		if a.Risk == sequence.RiskHigh {
			risk = "⚠️ HIGH"
		}
		return fmt.Sprintf("%s (%.1f%% GC Content)", risk, a.GC)
	}

	return "📦 Data secured in ledger."
}
