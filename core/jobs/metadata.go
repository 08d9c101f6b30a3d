package jobs

import (
	"encoding/json"
	"strings"
)

// DefaultInterviewPrompt is used whenever job metadata yields no usable
// instruction prompt.
const DefaultInterviewPrompt = "あなたは日本語で話す面接官の人工知能です。" +
	"目的は候補者の経験と考え方を短時間で把握することです。" +
	"質問は大きく三つだけにします。" +
	"各質問では候補者の回答をよく聞き、重要度が高い点を1つ選び、2〜3回だけ深掘りします。" +
	"口調は丁寧で落ち着いていて、短く分かりやすく話します。" +
	"分からない点は推測せず確認してください。" +
	"最後に要点を短くまとめて終了してください。\n\n" +
	"本質問1: 最近の仕事やプロジェクトで、主担当として成果を出した取り組みを一つ教えてください。\n" +
	"本質問2: 難しい状況やトラブルに直面したとき、どうやって立て直しましたか。具体例で教えてください。\n" +
	"本質問3: 次の職場や役割で実現したいことは何ですか。"

// ResolvePrompt turns opaque job metadata into the instruction prompt for the
// session, always passed through ApplySpeakingStyle. Resolution order:
//
//  1. empty metadata -> default prompt
//  2. JSON object with a non-blank string "prompt" field -> that prompt
//  3. non-blank raw metadata -> the metadata itself, taken as a literal prompt
//  4. otherwise -> default prompt
func ResolvePrompt(metadata string) string {
	if metadata == "" {
		return ApplySpeakingStyle(DefaultInterviewPrompt)
	}

	if parsed, ok := parseMetadataObject(metadata); ok {
		if prompt, ok := stringField(parsed, "prompt"); ok {
			return ApplySpeakingStyle(prompt)
		}
	}

	if raw := strings.TrimSpace(metadata); raw != "" {
		return ApplySpeakingStyle(raw)
	}

	return ApplySpeakingStyle(DefaultInterviewPrompt)
}

// ResolveOpeningMessage extracts the optional opening utterance from job
// metadata. Unlike the prompt, free-text metadata has no literal
// interpretation here: anything that is not a JSON object with a non-blank
// string "openingMessage" field resolves to absent.
func ResolveOpeningMessage(metadata string) (string, bool) {
	if metadata == "" {
		return "", false
	}

	parsed, ok := parseMetadataObject(metadata)
	if !ok {
		return "", false
	}

	return stringField(parsed, "openingMessage")
}

// parseMetadataObject attempts to read metadata as a JSON object. Failure is
// an expected branch of resolution, not an error.
func parseMetadataObject(metadata string) (map[string]any, bool) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(metadata), &parsed); err != nil || parsed == nil {
		return nil, false
	}
	return parsed, true
}

func stringField(object map[string]any, key string) (string, bool) {
	value, ok := object[key].(string)
	if !ok {
		return "", false
	}

	value = strings.TrimSpace(value)
	return value, value != ""
}
