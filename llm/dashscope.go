// DashScope Provider: Qwen-VL through the OpenAI-compatible endpoint.
//
// Information Hiding:
// - Uses the OpenAI-compatible API with a DashScope base URL
// - Video frame sequences are sent as native "video" blocks

package llm

// DashScopeBaseURL is the DashScope OpenAI-compatible endpoint.
const DashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// NewDashScopeProvider creates a provider for Qwen-VL models on DashScope.
// An empty baseURL selects DashScopeBaseURL.
func NewDashScopeProvider(apiKey, baseURL, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DashScopeBaseURL
	}
	return newCompatibleProvider("dashscope", apiKey, baseURL, model, maxTokens, temperature, true)
}
