package messages

// Prompt messages shared by the terminal and line-based prompters.
const (
	PromptCancelled        = "cancelled"
	PromptDismissed        = "dismissed"
	PromptNoInput          = "no answer: input ended"
	PromptRequiresTerminal = "interactive prompts require a terminal"
	PromptNoOptionsFmt     = "%s: nothing to choose from"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt      = "%s [Y/n]: "
	PromptNoDefaultFmt       = "%s [y/N]: "
	PromptInvalidResponseFmt = "invalid response %q"
	PromptRetryYesNo         = "Please enter y or n."

	PromptSelectFmt      = "%s (%s)%s: "
	PromptDefaultFmt     = " [%s]"
	PromptRetrySelectFmt = "Please choose one of: %s\n"
)
