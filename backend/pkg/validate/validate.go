package validate

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 课程日与时间段的封闭取值
var (
	Days = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

	TimeSlots = []string{
		"07:00-09:00",
		"09:00-11:00",
		"11:00-13:00",
		"13:00-15:00",
		"15:00-17:00",
		"17:00-19:00",
	}
)

var (
	once sync.Once
	std  *validator.Validate
)

// IsDay 是否为合法的星期缩写
func IsDay(s string) bool {
	return contains(Days, s)
}

// IsTimeSlot 是否为合法的时间段
func IsTimeSlot(s string) bool {
	return contains(TimeSlots, s)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Register 在 validator 实例上注册自定义规则与 JSON 字段名
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("logday", func(fl validator.FieldLevel) bool {
		return IsDay(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return IsTimeSlot(fl.Field().String())
	})
}

// RegisterGinBinding 将自定义规则注册到 gin 的绑定校验器
// binding:"logday" / binding:"timeslot" 依赖此注册
func RegisterGinBinding() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

// Validator 服务层使用的共享校验器
func Validator() *validator.Validate {
	once.Do(func() {
		std = validator.New(validator.WithRequiredStructEnabled())
		// 注册失败只可能是标签名冲突，属于编程错误
		if err := Register(std); err != nil {
			panic(err)
		}
	})
	return std
}

// Struct 校验结构体，返回 字段 → 失败规则 的映射；无错误时返回 nil
func Struct(s interface{}) map[string]string {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
