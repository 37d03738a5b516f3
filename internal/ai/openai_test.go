package ai

import "testing"

func TestCleanJSONString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"posts":[]}`, `{"posts":[]}`},
		{"```json\n{\"posts\":[]}\n```", `{"posts":[]}`},
		{"```\n{\"tags\":[]}\n```", `{"tags":[]}`},
		{"  {\"videoId\":\"abc\"}  ", `{"videoId":"abc"}`},
	}
	for _, tc := range cases {
		if got := cleanJSONString(tc.in); got != tc.want {
			t.Errorf("cleanJSONString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
