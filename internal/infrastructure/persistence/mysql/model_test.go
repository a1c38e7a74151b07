package mysql

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 图书删除必须是物理删除：模型上出现gorm.DeletedAt字段会让
// gorm把Delete静默改写为UPDATE软删除，行留在表里
func TestBookModelHasNoSoftDelete(t *testing.T) {
	_, found := reflect.TypeOf(BookModel{}).FieldByName("DeletedAt")
	assert.False(t, found, "BookModel不应有DeletedAt字段，图书删除是物理删除")
}

// 用户归属认证协作方，保留软删除以便追溯
func TestUserModelKeepsSoftDelete(t *testing.T) {
	_, found := reflect.TypeOf(UserModel{}).FieldByName("DeletedAt")
	assert.True(t, found)
}
