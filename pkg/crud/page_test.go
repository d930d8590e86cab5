package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPage_ModalsReconcileTheList(t *testing.T) {
	svc := &stubService{items: []item{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}}
	page := NewPage(newSchema(svc), ListConfig[item]{Resource: "item"}, quietLogger())
	ctx := context.Background()
	require.NoError(t, page.List.Mount(ctx))

	require.NoError(t, page.Add.OpenAdd(ctx))
	require.NoError(t, page.Add.Set("id", "3"))
	require.NoError(t, page.Add.Set("name", "c"))
	require.NoError(t, page.Add.Submit(ctx))
	require.Equal(t, "3", page.List.Items()[0].ID)

	row, ok := page.List.Find("2")
	require.True(t, ok)
	require.NoError(t, page.View.Open(ctx, row))
	require.NoError(t, page.View.Edit(ctx, page.Edit))
	require.NoError(t, page.Edit.Set("name", "B"))
	require.NoError(t, page.Edit.Submit(ctx))
	updated, _ := page.List.Find("2")
	require.Equal(t, "B", updated.Name)

	page.Delete.Open(updated)
	require.NoError(t, page.Delete.Confirm(ctx))
	_, ok = page.List.Find("2")
	require.False(t, ok)

	require.Equal(t, 2, page.List.Len())
	banner, _ := page.List.Banner()
	require.Equal(t, "Item deleted successfully!", banner.Message)
	require.Equal(t, []string{"getAll", "create", "getByID:2", "update:2", "delete:2"}, svc.Calls())
}
