package jobs

import "strings"

// speakingStyleHeading marks the appended style block. Its presence is what
// makes ApplySpeakingStyle idempotent.
const speakingStyleHeading = "【話し方のルール】"

const speakingStyleBlock = speakingStyleHeading + "\n" +
	"一文は短くしてください。\n" +
	"文末には必ず「。」「？」「！」のいずれかを付けてください。\n" +
	"外国語の単語は使わず、日本語だけで話してください。\n" +
	"飾らない自然な会話の言葉で話してください。"

// ApplySpeakingStyle appends the speech-style directives to a prompt.
// Prompts that already carry the style block are returned unchanged, so the
// augmentation can be applied any number of times with no cumulative effect.
func ApplySpeakingStyle(prompt string) string {
	if strings.Contains(prompt, speakingStyleHeading) {
		return prompt
	}

	return strings.TrimRight(prompt, " \t\r\n") + "\n\n" + speakingStyleBlock
}
