package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotov/fishshop-bot/internal/domain"
)

func TestRenderText(t *testing.T) {
	s := Aggregate([]domain.LineItem{
		{ID: 1, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 2, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 3, ProductID: 9, Title: "Форель", Price: 250.5},
	})

	text := RenderText(s)

	assert.Equal(t,
		"Корзина:\n\n"+
			"Сельдь\nЗа килограмм 100 руб.\nДобавлено 2 кг. на сумму 200 руб.\n\n"+
			"Форель\nЗа килограмм 250.5 руб.\nДобавлено 1 кг. на сумму 250.5 руб.\n\n"+
			"Общая сумма - 450.5 руб.",
		text)
}

func TestFormatPrice(t *testing.T) {
	// Shared by the cart text and the product caption; both surfaces
	// must agree on the rendering.
	assert.Equal(t, "100", FormatPrice(100))
	assert.Equal(t, "250.5", FormatPrice(250.5))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestRenderTextEmpty(t *testing.T) {
	text := RenderText(Aggregate(nil))
	assert.Equal(t, "Корзина:\n\nОбщая сумма - 0 руб.", text)
}

func TestDeleteActions(t *testing.T) {
	s := Aggregate([]domain.LineItem{
		{ID: 12, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 15, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 19, ProductID: 9, Title: "Форель", Price: 250},
	})

	actions := DeleteActions(s)
	require.Len(t, actions, 2)
	assert.Equal(t, "Удалить Сельдь", actions[0].Label)
	assert.Equal(t, "delete_products_12,15", actions[0].Token)
	assert.Equal(t, "Удалить Форель", actions[1].Label)
	assert.Equal(t, "delete_products_19", actions[1].Token)
}
