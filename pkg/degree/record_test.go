package degree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sw33tLie/degreeaudit/pkg/catalog"
)

func TestHash(t *testing.T) {
	assert.Equal(t, int32(0), Hash(""))
	assert.Equal(t, int32(97), Hash("a"))
	assert.Equal(t, int32(3105), Hash("ab"))
	// Wraps at 32 bits like the page script's "hash |= 0".
	assert.Equal(t, int32(-27176521), Hash("Data Structures and Algorithms"))
}

func TestRecord_Display(t *testing.T) {
	r := NewCourseRecord(catalog.Course{Code: "CS-260", Name: "Data Structures"}, ReadyToTake)
	assert.Equal(t, "Data Structures", r.DisplayName())
	assert.Equal(t, "CS-260", r.DisplayCode("3.5"))
	assert.Equal(t, "CS-260", r.LookupCode())

	r.OverriddenName = "DS"
	r.OverriddenCode = "CS-265"
	assert.Equal(t, "DS", r.DisplayName())
	assert.Equal(t, "CS-265", r.DisplayCode("3.5"))
	assert.Equal(t, "CS-265", r.LookupCode())
	assert.Equal(t, "CS-260", r.Code())
}

func TestRecord_DisplayCodeFallbacks(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Free Electives", "Electives"},
		{"Minimum GPA", "Current GPA: 3.71"},
		{"Something else", UnknownCode},
	}
	for _, tt := range tests {
		r := Record{Course: catalog.Course{Name: tt.name}}
		assert.Equal(t, tt.want, r.DisplayCode("3.71"), tt.name)
	}
}

func TestRecord_Constructors(t *testing.T) {
	h := NewHeader("Core Requirements")
	assert.True(t, h.IsHeader())
	assert.Equal(t, HeaderCode, h.Code())
	assert.Equal(t, ReadyToTake, h.Completion)
	assert.Equal(t, 0.0, h.Course.Credits)

	m := NewMultipleChoice("CS-260 various choices", "Electives", []string{"Data Structures", "CS-270"})
	assert.Equal(t, KindMultipleChoice, m.Kind)
	assert.Equal(t, MultipleChoiceCode, m.Code())
	assert.Equal(t, Hash("Electives"), m.Hash)

	c := NewCustomCourse("", "")
	assert.Equal(t, "Unnamed Course", c.DisplayName())
	assert.Equal(t, UndefinedCode, c.Code())
	assert.True(t, c.IsAddedCourse)

	ch := NewCustomHeader("")
	assert.True(t, ch.IsHeader())
	assert.True(t, ch.IsAddedCourse)
	assert.Equal(t, "Untitled Header", ch.DisplayName())
}

func TestRecord_JSONFieldNames(t *testing.T) {
	r := NewHeader("Core Requirements")
	r.OverriddenName = "Core"
	data, err := json.Marshal(r)
	require.NoError(t, err)

	assert.Equal(t, "Core Requirements", gjson.GetBytes(data, "course.properName").String())
	assert.Equal(t, "Header", gjson.GetBytes(data, "course.codeName").String())
	assert.Equal(t, "Incomplete (Ready to take)", gjson.GetBytes(data, "completion").String())
	assert.Equal(t, "Core", gjson.GetBytes(data, "overriddenName").String())
	assert.True(t, gjson.GetBytes(data, "isHeader").Bool())
	assert.False(t, gjson.GetBytes(data, "isHidden").Exists())

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestRecord_UnmarshalLegacySnapshot(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Kind
	}{
		{"header flag", `{"course":{"codeName":"Header","properName":"CORE"},"completion":"Complete","hash":1,"isHeader":true}`, KindHeader},
		{"options", `{"course":{"codeName":"Multiple course codes"},"completion":"Complete","hash":1,"options":["a","b"]}`, KindMultipleChoice},
		{"added", `{"course":{"codeName":"Undefined Course Code"},"completion":"Complete","hash":0,"isAddedCourse":true}`, KindCustom},
		{"plain", `{"course":{"codeName":"CS-260"},"completion":"Complete","hash":0}`, KindSingle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			require.NoError(t, json.Unmarshal([]byte(tt.data), &r))
			assert.Equal(t, tt.want, r.Kind)
		})
	}
}
