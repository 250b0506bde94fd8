// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"encoding/json"
	"testing"
)

func TestCompletionRequest_Defaults(t *testing.T) {
	var req CompletionRequest
	if err := json.Unmarshal([]byte(`{"model":"m","prompt":"hello"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	req.Normalize()
	if *req.MaxNewTokens != DefaultCompletionMaxTokens {
		t.Errorf("max_new_tokens = %d, want %d", *req.MaxNewTokens, DefaultCompletionMaxTokens)
	}
	if *req.Temperature != DefaultTemperature {
		t.Errorf("temperature = %v, want %v", *req.Temperature, DefaultTemperature)
	}
	if *req.Stream {
		t.Error("stream default should be false")
	}
	if req.Prompt.Text != "hello" {
		t.Errorf("prompt = %q, want hello", req.Prompt.Text)
	}
}

func TestCompletionRequest_ExplicitZeroNotOverridden(t *testing.T) {
	var req CompletionRequest
	if err := json.Unmarshal([]byte(`{"model":"m","prompt":"p","temperature":0}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	req.Normalize()
	if *req.Temperature != 0 {
		t.Errorf("explicit temperature 0 overridden to %v", *req.Temperature)
	}
}

func TestPrompt_TokenArray(t *testing.T) {
	var req CompletionRequest
	if err := json.Unmarshal([]byte(`{"model":"m","prompt":[1,2,3]}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(req.Prompt.Tokens) != 3 || req.Prompt.Tokens[2] != 3 {
		t.Errorf("tokens = %v, want [1 2 3]", req.Prompt.Tokens)
	}

	out, err := json.Marshal(req.Prompt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "[1,2,3]" {
		t.Errorf("marshal = %s, want [1,2,3]", out)
	}
}

func TestPrompt_Invalid(t *testing.T) {
	var p Prompt
	if err := json.Unmarshal([]byte(`{"bad":1}`), &p); err == nil {
		t.Error("object prompt should fail")
	}
}

func TestChatCompletionRequest_Defaults(t *testing.T) {
	var req ChatCompletionRequest
	body := `{"model":"m","messages":[{"role":"user","content":"hi"}]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	req.Normalize()
	if *req.MaxTokens != DefaultChatMaxTokens {
		t.Errorf("max_tokens = %d, want %d", *req.MaxTokens, DefaultChatMaxTokens)
	}
	if req.Streaming() {
		t.Error("Streaming() should be false by default")
	}
}

func TestEmbeddingInput_StringAndArray(t *testing.T) {
	var req CreateEmbeddingRequest
	if err := json.Unmarshal([]byte(`{"model":"m","input":"one"}`), &req); err != nil {
		t.Fatalf("unmarshal string input: %v", err)
	}
	if len(req.Input.Texts) != 1 || req.Input.Texts[0] != "one" {
		t.Errorf("Texts = %v, want [one]", req.Input.Texts)
	}

	if err := json.Unmarshal([]byte(`{"model":"m","input":["a","b"]}`), &req); err != nil {
		t.Fatalf("unmarshal array input: %v", err)
	}
	if len(req.Input.Texts) != 2 {
		t.Errorf("Texts = %v, want 2 entries", req.Input.Texts)
	}
}

func TestNewChatCompletionResponse_Shape(t *testing.T) {
	resp := NewChatCompletionResponse("m", "answer", "stop", &Usage{TotalTokens: 3})
	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded["object"] != ObjectChatCompletion {
		t.Errorf("object = %v", decoded["object"])
	}
	choices := decoded["choices"].([]any)
	msg := choices[0].(map[string]any)["message"].(map[string]any)
	if msg["content"] != "answer" || msg["role"] != "assistant" {
		t.Errorf("message = %v", msg)
	}
}

func TestNewModelList(t *testing.T) {
	list := NewModelList("gpt-4o-mini")
	if list.Object != "list" || len(list.Data) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if list.Data[0].Object != "model" || list.Data[0].OwnedBy != DefaultModelOwner {
		t.Errorf("model item = %+v", list.Data[0])
	}

	empty := NewModelList()
	out, _ := json.Marshal(empty)
	if string(out) != `{"object":"list","data":[]}` {
		t.Errorf("empty list = %s, want data:[]", out)
	}
}
