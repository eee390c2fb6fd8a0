package convert

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructCopy 按同名字段将 source 拷贝到 target
// target 必须为指针
func StructCopy(target interface{}, source interface{}) error {
	if err := copier.Copy(target, source); err != nil {
		return errors.Wrap(err, "struct copy failed")
	}
	return nil
}

// StructCopyWithOption 深拷贝，忽略零值字段
// 用于 patch 语义：只有 source 中被赋值的字段覆盖 target
func StructCopyWithOption(target interface{}, source interface{}) error {
	err := copier.CopyWithOption(target, source, copier.Option{
		IgnoreEmpty: true,
		DeepCopy:    true,
	})
	if err != nil {
		return errors.Wrap(err, "struct copy failed")
	}
	return nil
}
