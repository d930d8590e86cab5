package crud

import (
	"github.com/sirupsen/logrus"
)

// Page bundles a list with its four modals, wired through the success and
// close callbacks only.
type Page[T Entity] struct {
	Schema *Schema[T]
	List   *ListController[T]
	Add    *FormController[T]
	Edit   *FormController[T]
	View   *ViewController[T]
	Delete *DeleteController[T]
}

func NewPage[T Entity](schema *Schema[T], cfg ListConfig[T], log *logrus.Logger) *Page[T] {
	if cfg.Fetch == nil && schema.Service != nil {
		cfg.Fetch = schema.Service.GetAll
	}
	if cfg.Resource == "" {
		cfg.Resource = schema.Resource
	}
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	list := NewList(cfg)
	onUpdate := func(record T) { list.OnUpdateSuccess(record) }
	onDelete := func(key string) { list.OnDeleteSuccess(key) }
	onClose := func() {}
	return &Page[T]{
		Schema: schema,
		List:   list,
		Add:    NewForm(schema, list.OnCreateSuccess, onClose, log),
		Edit:   NewForm(schema, onUpdate, onClose, log),
		View:   NewView(schema, log),
		Delete: NewDelete(schema, onDelete, onClose, log),
	}
}
