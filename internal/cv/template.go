package cv

import (
	"encoding/json"
	"strings"
)

// DefaultTemplate is the built-in extraction template. It is user-editable
// through settings; the embedded example object defines the target schema the
// model is asked to fill.
const DefaultTemplate = `TRÍCH XUẤT THÔNG TIN VÀ TRẢ VỀ DẠNG JSON OBJECT:
{
  "full_name": "Nguyễn Văn A",
  "gender": "Male/Female",
  "nationality": "Việt Nam",
  "address": "Quận 1, TP.HCM",
  "birth_year": "1995",
  "email": "nguyenvana@email.com",
  "phone": "0901234567",
  "university": "Bachelor’s Degree, Associate’s Degree, Master’s Degree, Doctorate (PhD)",
  "certificates": "IELTS 7.5,TEFL,CELTA,TESOL,TOEIC 900+",
  "experience_summary": "Tóm tắt kinh nghiệm làm việc chuyên môn.",
  "class_type": "Kindergarten / Preschool, Primary School, Secondary School, High School, Language Center, Online...",
  "branch": "HO CHI MINH / HA NOI / DA NANG",
  "cv_source": "Facebook / LinkedIn / Website / Vietnamteachingjobs / Group Zalo / Outsource / Refferal from a friend/ Other/ ...",
  "candidate_type": "School during daytime (full-time) / Private classes/Centers during evenings and weekends (part-time)"
}
Lưu ý: Nếu thiếu thông tin ghi "N/A"`

// fallbackSample is used when a template carries no parseable example object.
var fallbackSample = map[string]string{
	"info":      "Mẫu không hợp lệ",
	"full_name": "Nguyễn Văn Test",
	"gender":    "Male",
}

// Sample recovers the example object embedded in an extraction template. When
// the template holds no parseable object a small fallback sample is returned
// instead of an error, so webhook tests still have something to send.
func Sample(template string) map[string]string {
	span, ok := ObjectSpan(template)
	if !ok {
		return cloneSample()
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return cloneSample()
	}

	record, err := Decode(raw)
	if err != nil {
		return cloneSample()
	}

	sample := make(map[string]string, len(record.Fields)+len(record.Extra))
	for k, v := range record.Fields {
		sample[k] = v
	}
	for k, v := range record.Extra {
		sample[k] = v
	}
	return sample
}

// ObjectSpan locates the candidate JSON object inside free text: greedily from
// the first opening brace to the last closing one.
func ObjectSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

func cloneSample() map[string]string {
	sample := make(map[string]string, len(fallbackSample))
	for k, v := range fallbackSample {
		sample[k] = v
	}
	return sample
}
