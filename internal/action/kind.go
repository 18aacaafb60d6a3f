package action

// Kind names an action. Its value is what markup carries in data-action.
type Kind string

const (
	SaveDream     Kind = "save-dream"
	EditDream     Kind = "edit-dream"
	SaveEdit      Kind = "save-edit"
	CancelEdit    Kind = "cancel-edit"
	DeleteDream   Kind = "delete-dream"
	ConfirmDelete Kind = "confirm-delete"
	CancelDelete  Kind = "cancel-delete"
	PrevPage      Kind = "prev-page"
	NextPage      Kind = "next-page"
	GoToPage      Kind = "go-to-page"
	Search        Kind = "search"
	Filter        Kind = "filter"
	ClearFilters  Kind = "clear-filters"
	LoadMore      Kind = "load-more"
	Scroll        Kind = "scroll"
)

// Kinds lists every action the application understands.
func Kinds() []Kind {
	return []Kind{
		SaveDream, EditDream, SaveEdit, CancelEdit,
		DeleteDream, ConfirmDelete, CancelDelete,
		PrevPage, NextPage, GoToPage,
		Search, Filter, ClearFilters,
		LoadMore, Scroll,
	}
}

// Data attributes read from elements.
const (
	AttrAction  = "data-action"
	AttrDreamID = "data-dream-id"
	AttrPage    = "data-page"
	AttrType    = "data-type"
)
