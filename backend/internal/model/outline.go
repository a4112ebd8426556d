package model

// ModuleStatus 模块状态（由子主题完成情况派生）
type ModuleStatus string

const (
	ModulePending   ModuleStatus = "Pending"
	ModuleOngoing   ModuleStatus = "Ongoing"
	ModuleCompleted ModuleStatus = "Completed"
)

// OutlineModule 课程大纲模块 — 对应 outline_modules
// Status 是缓存的派生值，仅在切换子主题后重新计算并写回
type OutlineModule struct {
	ModuleID    string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_id"`
	CourseID    string       `gorm:"type:uuid;not null"                             json:"course_id"`
	Order       int          `gorm:"column:sort_order;not null;default:0"           json:"order"`
	Title       string       `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string       `gorm:"type:text"                                      json:"description,omitempty"`
	Status      ModuleStatus `gorm:"type:varchar(20);not null;default:'Pending'"    json:"status"`
	BaseModel

	// 关联
	Chapters []Chapter `gorm:"foreignKey:ModuleID" json:"chapters,omitempty"`
}

func (OutlineModule) TableName() string { return "outline_modules" }

// Chapter 章节 — 对应 chapters
type Chapter struct {
	ChapterID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"chapter_id"`
	ModuleID    string `gorm:"type:uuid;not null"                             json:"module_id"`
	Order       int    `gorm:"column:sort_order;not null;default:0"           json:"order"`
	Title       string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel

	// 关联
	Subtopics []Subtopic `gorm:"foreignKey:ChapterID" json:"subtopics,omitempty"`
}

func (Chapter) TableName() string { return "chapters" }

// AllComplete 章节下所有子主题均已完成；空章节视为完成
func (c *Chapter) AllComplete() bool {
	for i := range c.Subtopics {
		if !c.Subtopics[i].Completed {
			return false
		}
	}
	return true
}

// AnyComplete 章节下存在已完成的子主题
func (c *Chapter) AnyComplete() bool {
	for i := range c.Subtopics {
		if c.Subtopics[i].Completed {
			return true
		}
	}
	return false
}

// Subtopic 子主题 — 对应 subtopics，完成状态的唯一事实来源
type Subtopic struct {
	SubtopicID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subtopic_id"`
	ChapterID   string `gorm:"type:uuid;not null"                             json:"chapter_id"`
	Order       int    `gorm:"column:sort_order;not null;default:0"           json:"order"`
	Title       string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	Completed   bool   `gorm:"not null;default:false"                         json:"completed"`
	BaseModel
}

func (Subtopic) TableName() string { return "subtopics" }

// AggregateModuleStatus 根据章节及其子主题计算模块状态
//   - 所有章节完成（含空章节、无章节）→ Completed
//   - 否则存在任一已完成子主题 → Ongoing
//   - 否则 → Pending
func AggregateModuleStatus(chapters []Chapter) ModuleStatus {
	allComplete := true
	anyComplete := false
	for i := range chapters {
		if !chapters[i].AllComplete() {
			allComplete = false
		}
		if chapters[i].AnyComplete() {
			anyComplete = true
		}
	}
	switch {
	case allComplete:
		return ModuleCompleted
	case anyComplete:
		return ModuleOngoing
	default:
		return ModulePending
	}
}
