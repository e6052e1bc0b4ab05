// Package output provides structured output handling for the cipp CLI.
//
// Every command writes through a Printer, which produces either styled text
// for people or JSON for scripts and agents:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//	printer.Table([]string{"TAG", "KIND"}, rows)
//	printer.Error(err)
//
// In JSON mode errors are written as {"error": "message", "code": N}.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: Bad arguments, invalid tag values
//	output.ExitSystemError // 2: I/O or database failure
//	output.ExitConflict    // 3: Protected tag, file already exists
//	output.ExitNotFound    // 4: Layout, view or fragment missing
package output
