package category

import (
	"strings"
	"time"
	"unicode/utf8"
)

// maxNameLength 名称最大字符数
const maxNameLength = 255

// Category 商品分类
// 删除分类不删除商品,商品的分类引用置空
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory 创建分类,名称去除首尾空白后不能为空
func NewCategory(name string) (*Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Category{Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// Rename 修改名称
func (c *Category) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
