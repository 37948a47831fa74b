package alerts

import (
	"fmt"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

func targetAmountMessage(rec *model.TransactionRecord, target float64) string {
	return fmt.Sprintf(
		"🎯 *TARGET AMOUNT TRANSFER DETECTED*\n"+
			"From: `%s`\n"+
			"To: `%s`\n"+
			"Amount: %.2f (target %.2f)\n"+
			"Block: %d\n"+
			"TX: `%s`",
		rec.FromAddress, rec.ToAddress, rec.Amount, target, rec.BlockNumber, rec.TxHash)
}

func patternAnomalyMessage(rec *model.TransactionRecord) string {
	return fmt.Sprintf(
		"⚠️ *UNUSUAL PATTERN DETECTED*\n"+
			"Score: %.2f\n"+
			"Amount: %.2f\n"+
			"From: `%s`\n"+
			"To: `%s`\n"+
			"TX: `%s`",
		rec.PatternScore, rec.Amount, rec.FromAddress, rec.ToAddress, rec.TxHash)
}

func largeTransferMessage(rec *model.TransactionRecord) string {
	return fmt.Sprintf(
		"💰 *LARGE TRANSFER DETECTED*\n"+
			"Amount: %.2f\n"+
			"From: `%s`\n"+
			"To: `%s`\n"+
			"TX: `%s`",
		rec.Amount, rec.FromAddress, rec.ToAddress, rec.TxHash)
}

// severityEmoji prefixes chat messages so severity is readable at a glance.
var severityEmoji = map[model.Severity]string{
	model.SeverityLow:      "🔵",
	model.SeverityMedium:   "🟡",
	model.SeverityHigh:     "🔴",
	model.SeverityCritical: "🔴‼️",
}
