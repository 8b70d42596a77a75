package tarot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tarot-api/internal/domain"
)

func relationshipCards(reversedIndex int) []domain.DrawnCard {
	names := []string{"The Fool", "The Magician", "The Lovers", "The Star", "The Tower", "The Sun"}
	positions := []string{"A的想法/态度", "B的想法/态度", "A对B的感受", "B对A的感受", "关系现状", "关系建议"}
	cards := make([]domain.DrawnCard, len(names))
	for i := range names {
		cards[i] = domain.DrawnCard{Name: names[i], IsReversed: i == reversedIndex, Position: positions[i]}
	}
	return cards
}

func TestInterpret_ThreeCardScenario(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())
	cards := []domain.DrawnCard{
		{Name: "The Fool", IsReversed: false, Position: "过去"},
		{Name: "The Magician", IsReversed: true, Position: "现在"},
		{Name: "The Star", IsReversed: false, Position: "未来"},
	}

	got, err := in.Interpret(cards, SpreadThree)
	require.NoError(t, err)

	assert.Equal(t, GenericSummary, got.General)
	require.Len(t, got.Cards, 3)
	assert.Equal(t, []string{"过去", "现在", "未来"},
		[]string{got.Cards[0].Position, got.Cards[1].Position, got.Cards[2].Position})

	assert.Equal(t,
		"The Fool 正位 - 在过去位置，反映了整体关系的状态。今天充满新的机遇，保持开放和冒险的心态。",
		got.Cards[0].Meaning)
	assert.Equal(t,
		"The Magician 逆位 - 在现在位置，反映了整体关系的状态。注意力分散，计划可能流于空想。",
		got.Cards[1].Meaning)
	assert.True(t, strings.HasPrefix(got.Cards[2].Meaning, "The Star 正位 - 在未来位置"))
}

func TestInterpret_Pure(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())
	cards := relationshipCards(2)

	first, err := in.Interpret(cards, SpreadRelationship)
	require.NoError(t, err)
	second, err := in.Interpret(cards, SpreadRelationship)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Interpret is not pure (-first +second):\n%s", diff)
	}
}

func TestInterpret_RelationshipStatusReversed(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())

	got, err := in.Interpret(relationshipCards(4), SpreadRelationship)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.General, relationshipIntro))
	assert.Contains(t, got.General, "两人之间的互动可能需要更多沟通和理解。")
	assert.NotContains(t, got.General, "两人之间的互动基本保持良好。")

	for i := 0; i < 6; i++ {
		if i == 4 {
			continue
		}
		assert.Contains(t, got.General, RelationshipClause(i, false), "index %d should be upright", i)
		assert.NotContains(t, got.General, RelationshipClause(i, true), "index %d should not be reversed", i)
	}
}

func TestInterpret_RelationshipEveryIndex(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())

	for idx := 0; idx < 6; idx++ {
		got, err := in.Interpret(relationshipCards(idx), SpreadRelationship)
		require.NoError(t, err)
		assert.Contains(t, got.General, RelationshipClause(idx, true))
	}
}

func TestInterpret_PositionContext(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())

	got, err := in.Interpret(relationshipCards(-1), SpreadRelationship)
	require.NoError(t, err)

	assert.Contains(t, got.Cards[0].Meaning, "反映了第一方的状态")
	assert.Contains(t, got.Cards[1].Meaning, "反映了第二方的状态")
	assert.Contains(t, got.Cards[4].Meaning, "反映了整体关系的状态")
}

func TestInterpret_Errors(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())

	_, err := in.Interpret(relationshipCards(-1), SpreadThree)
	assert.ErrorIs(t, err, ErrInvalidSpread)

	_, err = in.Interpret(nil, SpreadSingle)
	assert.ErrorIs(t, err, ErrInvalidSpread)

	_, err = in.Interpret([]domain.DrawnCard{{Name: "The Fool"}}, "unknown")
	assert.ErrorIs(t, err, ErrInvalidSpread)
}

func TestInterpret_FallbackTemplate(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())

	got, err := in.Interpret([]domain.DrawnCard{{Name: "Death", IsReversed: true}}, SpreadSingle)
	require.NoError(t, err)

	assert.Equal(t,
		"Death 逆位 - 在主要指引位置，反映了整体关系的状态。需要谨慎行事，不要轻易冒险。",
		got.Cards[0].Meaning)
}

func TestFortune(t *testing.T) {
	t.Parallel()
	in := NewInterpreter(DefaultCatalog())

	got := in.Fortune(domain.DrawnCard{Name: "The Fool"}, &scriptedRand{ints: []int{3, 6}})

	want := domain.Fortune{
		General:     "今天充满新的机遇，保持开放和冒险的心态",
		Love:        "可能会遇到令人心动的邂逅",
		Career:      "适合尝试新的工作方向",
		Health:      "保持乐观积极的心态有益健康",
		LuckyColor:  "金色",
		LuckyNumber: 7,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fortune() mismatch (-want +got):\n%s", diff)
	}

	reversed := in.Fortune(domain.DrawnCard{Name: "The Chariot", IsReversed: true}, &scriptedRand{ints: []int{0, 0}})
	assert.Equal(t, "注意不要过分劳累", reversed.Health)
	assert.Equal(t, "紫色", reversed.LuckyColor)
	assert.Equal(t, 1, reversed.LuckyNumber)
}
