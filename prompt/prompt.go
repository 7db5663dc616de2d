// Package prompt holds the instruction texts sent alongside chat screenshots.
package prompt

import "strings"

// Template selects a fixed prompt text.
type Template string

const (
	Single   Template = "single"
	Multiple Template = "multiple"
	Video    Template = "video"
	Custom   Template = "custom"
)

// ParseTemplate maps a selector to a Template. Unknown selectors map to Single.
func ParseTemplate(s string) Template {
	switch t := Template(strings.ToLower(strings.TrimSpace(s))); t {
	case Single, Multiple, Video, Custom:
		return t
	default:
		return Single
	}
}

// Generic prompts used when no chat template is requested.
const (
	DescribeImage  = "图中描绘的是什么景象?"
	DescribeImages = "这些图描绘了什么内容？"
	DescribeVideo  = "描述这个视频的具体过程"
)

// SystemInstruction describes the chat-bubble layout of a mobile screenshot.
const SystemInstruction = `你是一个专业的手机聊天截图识别助手。
截图来自手机上的AI对话应用：
- 右侧气泡是用户发送的消息；
- 左侧气泡是AI助手回复的消息；
- 助手回复下方自动生成的"推荐追问"、"猜你想问"等建议不是对话内容，必须忽略；
- 状态栏、输入框、按钮等界面元素不属于对话。
请逐字识别消息文字，保持原有顺序，不要翻译、总结或改写。
只返回一个JSON对象。`

const jsonShape = `
返回格式：
{"user_messages": ["用户消息1", "用户消息2"], "assistant_messages": ["助手回复1", "助手回复2"]}`

const actionsShape = `
返回格式：
{"user_messages": ["用户消息1"], "assistant_messages": ["助手回复1"], "user_actions": "用户操作描述"}`

// actionsSuffix is appended by WithActions.
const actionsSuffix = `
另外，请在 user_actions 字段中按时间顺序描述用户的操作行为（如滑动、点击、输入、切换页面）。`

var templates = map[Template]string{
	Single: `请识别这张手机对话截图中的全部对话内容。
按出现顺序分别提取用户消息和AI助手消息。` + jsonShape,
	Multiple: `这些是同一段对话按顺序截取的多张手机截图。
请把它们拼接成一段完整的对话，去掉截图之间重叠的重复消息，
按出现顺序分别提取用户消息和AI助手消息。` + jsonShape,
	Video: `这是一段手机AI对话应用的录屏，以下是按时间顺序抽取的视频帧。
请还原完整的对话内容：相邻帧中重复出现的消息只保留一次，
按出现顺序分别提取用户消息和AI助手消息，并描述用户在录屏中的操作行为。` + actionsShape,
}

// Build returns custom verbatim when it is non-empty, otherwise the text of t.
// Custom with no text and unknown templates fall back to Single.
func Build(t Template, custom string) string {
	if custom != "" {
		return custom
	}
	if text, ok := templates[t]; ok {
		return text
	}
	return templates[Single]
}

// WithActions asks for the user_actions field unless base already does.
func WithActions(base string) string {
	if strings.Contains(base, "user_actions") {
		return base
	}
	return base + actionsSuffix
}
