package catalog

type Category string

const (
	CategoryYoga        Category = "yoga"
	CategoryBoxing      Category = "boxing"
	CategoryDance       Category = "dance"
	CategoryHIIT        Category = "hiit"
	CategoryPilates     Category = "pilates"
	CategoryMartialArts Category = "martial_arts"
	CategoryStrength    Category = "strength"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryYoga, CategoryBoxing, CategoryDance, CategoryHIIT,
		CategoryPilates, CategoryMartialArts, CategoryStrength:
		return true
	}
	return false
}

type ServiceType string

const (
	TypeSingleClass ServiceType = "single_class"
	TypeCourse      ServiceType = "course"
)

func (t ServiceType) IsValid() bool {
	return t == TypeSingleClass || t == TypeCourse
}
