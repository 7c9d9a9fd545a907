package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionList_ValueScan(t *testing.T) {
	list := QuestionList{
		{Text: "1+1", Options: []string{"1", "2", "3", "4"}, CorrectIndex: 1},
	}
	val, err := list.Value()
	require.NoError(t, err)

	var scanned QuestionList
	require.NoError(t, scanned.Scan(val))
	assert.Equal(t, list, scanned)

	require.NoError(t, scanned.Scan([]byte(`[{"text":"q","options":["a","b","c","d"],"correctIndex":2}]`)))
	assert.Equal(t, 2, scanned[0].CorrectIndex)
}

func TestQuestionList_EmptyValues(t *testing.T) {
	val, err := QuestionList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", val)

	var scanned QuestionList
	for _, in := range []interface{}{nil, "", "null", []byte{}} {
		require.NoError(t, scanned.Scan(in))
		assert.Equal(t, QuestionList{}, scanned)
	}

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, scanned.Scan("{not json"))
}

func TestAnswerMap_ValueScan(t *testing.T) {
	answers := AnswerMap{0: 1, 2: 3}
	val, err := answers.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"0":1,"2":3}`, val)

	var scanned AnswerMap
	require.NoError(t, scanned.Scan(val))
	assert.Equal(t, answers, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}
