package realtime

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient user-visible notification raised by a mirror.
type Toast struct {
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Variant Variant `json:"variant"`
}

type Notifier interface {
	Notify(toast Toast)
}

type NotifierFunc func(toast Toast)

func (f NotifierFunc) Notify(toast Toast) {
	f(toast)
}
