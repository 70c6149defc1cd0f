// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checker

import (
	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/drange"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

// opStrings maps ast.TestOp to the operator-string vocabulary
// [fvalue.CapabilityFor] understands (spec §4.1.3).
var opStrings = map[ast.TestOp]string{
	ast.Eq: "==", ast.Ne: "!=", ast.AllNe: "all_ne",
	ast.Gt: ">", ast.Ge: ">=", ast.Lt: "<", ast.Le: "<=",
	ast.BitwiseAnd: "&", ast.Contains: "contains", ast.Matches: "matches",
	ast.In: "in",
}

// checkRelation dispatches a relational Test to the LHS-kind-specific
// relation checker (spec §4.1.3), after applying the RHS protocol→unparsed
// rewrite (§4.1.2).
func (c *checkerState) checkRelation(t *ast.Test) error {
	opStr, ok := opStrings[t.Op]
	if !ok {
		return typeErrorf("unknown relational operator %q", t.Op)
	}
	can, allowPartial := fvalue.CapabilityFor(opStr)

	if rhsField, ok := t.RHS.(*ast.Field); ok && rhsField.HField.Type == fvalue.Protocol {
		t.RHS = ast.NewUnparsed(rhsField.HField.DottedName, rhsField.Parenthesized())
	}

	switch lhs := t.LHS.(type) {
	case *ast.Field:
		return c.checkRelationField(t, lhs, opStr, can, allowPartial)
	case *ast.String, *ast.Unparsed, *ast.CharConst:
		return c.checkRelationLiteral(t, opStr, can, allowPartial)
	case *ast.Range:
		return c.checkRelationRange(t, lhs, opStr, can, allowPartial)
	case *ast.Function:
		return c.checkRelationFunction(t, lhs, opStr, can, allowPartial)
	default:
		return typeErrorf("%s cannot appear on the left of '%s'", describe(t.LHS), opStr)
	}
}

func (c *checkerState) checkRelationField(t *ast.Test, lhs *ast.Field, opStr string, can func(fvalue.FieldType) bool, allowPartial bool) error {
	ftype1 := lhs.HField.Type
	if !can(ftype1) {
		return typeErrorf("%s (type=%s) cannot participate in '%s' comparison", lhs.HField.DottedName, ftype1, opStr)
	}

	switch rhs := t.RHS.(type) {
	case *ast.Field:
		ftype2 := rhs.HField.Type
		if !fvalue.Compatible(ftype1, ftype2) {
			return typeErrorf("%s and %s are not of compatible types", lhs.HField.DottedName, rhs.HField.DottedName)
		}
		if !can(ftype2) {
			return typeErrorf("%s (type=%s) cannot participate in '%s' comparison", rhs.HField.DottedName, ftype2, opStr)
		}
		return nil

	case *ast.String:
		return c.coerceLiteralRHS(t, lhs.HField, rhs.Text, opStr, allowPartial)
	case *ast.Unparsed:
		return c.coerceLiteralRHS(t, lhs.HField, rhs.Text, opStr, allowPartial)
	case *ast.CharConst:
		return c.coerceCharConstRHS(t, lhs.HField, rhs, opStr, allowPartial)

	case *ast.Range:
		if err := c.checkRangeSanity(rhs); err != nil {
			return err
		}
		if !fvalue.IsBytesLike(ftype1) && fvalue.CanSlice(ftype1) {
			t.LHS = ast.NewRange(lhs, drange.Range{drange.NewToEnd(0)}, lhs.Parenthesized())
		}
		return nil

	case *ast.Function:
		return c.checkCrossCompat(ftype1, rhs.Def.ReturnType, lhs.HField.DottedName, rhs.Def.Name, opStr, can, rhs)

	case *ast.Set:
		if t.Op != ast.In {
			return typeErrorf("a set may only appear on the right of 'in'")
		}
		return c.checkSet(lhs.HField.Type, rhs, can)

	case *ast.Pcre:
		if t.Op != ast.Matches {
			return typeErrorf("a regular expression may only appear on the right of 'matches'")
		}
		return nil

	default:
		return typeErrorf("%s cannot appear on the right of '%s'", describe(t.RHS), opStr)
	}
}

// checkCrossCompat validates a Field/Function (or Function/Function, etc.)
// pairing sharing the compatible_ftypes + capability combinatorics.
func (c *checkerState) checkCrossCompat(ftype1, ftype2 fvalue.FieldType, name1, name2, opStr string, can func(fvalue.FieldType) bool, rhsFn *ast.Function) error {
	if !fvalue.Compatible(ftype1, ftype2) {
		return typeErrorf("%s and %s are not of compatible types", name1, name2)
	}
	if !can(ftype2) {
		return typeErrorf("%s (type=%s) cannot participate in '%s' comparison", name2, ftype2, opStr)
	}
	if rhsFn != nil {
		return c.checkFunction(rhsFn)
	}
	return nil
}

// coerceLiteralRHS parses a bare string/unparsed literal against hf's type,
// falling back to the field's value-string table, per spec §4.1.3.
func (c *checkerState) coerceLiteralRHS(t *ast.Test, hf *dfield.HField, text, opStr string, allowPartial bool) error {
	chain := hf.Chain()
	var lastErr error
	for _, alias := range chain {
		v, err := fvalue.ParseString(alias.Type, text)
		if err == nil {
			t.RHS = ast.NewFValue(v, t.RHS.Parenthesized())
			return nil
		}
		lastErr = err
	}
	if n, ok := hf.ReverseLookup(text); ok {
		t.RHS = ast.NewFValue(fvalue.New(hf.Type, n), t.RHS.Parenthesized())
		return nil
	}
	if allowPartial {
		t.RHS = ast.NewFValue(fvalue.New(fvalue.String, text), t.RHS.Parenthesized())
		return nil
	}
	_ = lastErr
	return typeErrorf("%q cannot be found among the possible values for %s", text, hf.DottedName)
}

func (c *checkerState) coerceCharConstRHS(t *ast.Test, hf *dfield.HField, rhs *ast.CharConst, opStr string, allowPartial bool) error {
	if len(rhs.Text) == 0 {
		return typeErrorf("empty character literal")
	}
	if t.Op == ast.Contains {
		hexText := byteToHex(rhs.Text[0])
		return c.coerceLiteralRHS(t, hf, hexText, opStr, allowPartial)
	}
	return c.coerceLiteralRHS(t, hf, rhs.Text, opStr, allowPartial)
}

func byteToHex(b byte) string {
	const hexdigits = "0123456789abcdef"
	return string([]byte{hexdigits[b>>4], hexdigits[b&0xf]})
}

// checkRelationLiteral handles LHS = String/Unparsed/CharConst: symmetric to
// checkRelationField with roles swapped.
func (c *checkerState) checkRelationLiteral(t *ast.Test, opStr string, can func(fvalue.FieldType) bool, allowPartial bool) error {
	switch rhs := t.RHS.(type) {
	case *ast.Field:
		text := literalText(t.LHS)
		if !can(rhs.HField.Type) {
			return typeErrorf("%s (type=%s) cannot participate in '%s' comparison", rhs.HField.DottedName, rhs.HField.Type, opStr)
		}
		return c.coerceLiteralRHS(t, rhs.HField, text, opStr, allowPartial)
	case *ast.Function:
		text := literalText(t.LHS)
		if !can(rhs.Def.ReturnType) {
			return typeErrorf("the function %q cannot participate in '%s' comparison", rhs.Def.Name, opStr)
		}
		t.LHS = ast.NewFValue(fvalue.New(fvalue.String, text), t.LHS.Parenthesized())
		return c.checkFunction(rhs)
	case *ast.String, *ast.Unparsed, *ast.CharConst:
		return typeErrorf("neither %s nor %s is a field", describe(t.LHS), describe(t.RHS))
	case *ast.Set:
		return typeErrorf("a literal may not be compared against a set")
	default:
		return typeErrorf("%s cannot appear on the right of '%s'", describe(t.RHS), opStr)
	}
}

func literalText(n ast.Node) string {
	switch v := n.(type) {
	case *ast.String:
		return v.Text
	case *ast.Unparsed:
		return v.Text
	case *ast.CharConst:
		return v.Text
	default:
		return ""
	}
}

func (c *checkerState) checkRelationRange(t *ast.Test, lhs *ast.Range, opStr string, can func(fvalue.FieldType) bool, allowPartial bool) error {
	if err := c.checkRangeSanity(lhs); err != nil {
		return err
	}
	switch rhs := t.RHS.(type) {
	case *ast.String:
		v, err := fvalue.ParseString(fvalue.Bytes, rhs.Text)
		if err != nil {
			return typeErrorf("%q is not a valid byte string", rhs.Text)
		}
		t.RHS = ast.NewFValue(v, rhs.Parenthesized())
		return nil
	case *ast.Unparsed:
		v, err := fvalue.ParseString(fvalue.Bytes, rhs.Text)
		if err != nil {
			return typeErrorf("%q is not a valid byte string", rhs.Text)
		}
		t.RHS = ast.NewFValue(v, rhs.Parenthesized())
		return nil
	case *ast.Range:
		return c.checkRangeSanity(rhs)
	case *ast.Set:
		return typeErrorf("a set may not appear on the right of a byte-range comparison")
	default:
		return nil
	}
}

func (c *checkerState) checkRelationFunction(t *ast.Test, lhs *ast.Function, opStr string, can func(fvalue.FieldType) bool, allowPartial bool) error {
	if err := c.checkFunction(lhs); err != nil {
		return err
	}
	ftype1 := lhs.Def.ReturnType
	if !can(ftype1) {
		return typeErrorf("the function %q (type=%s) cannot participate in '%s' comparison", lhs.Def.Name, ftype1, opStr)
	}
	switch rhs := t.RHS.(type) {
	case *ast.Field:
		return c.checkCrossCompat(ftype1, rhs.HField.Type, lhs.Def.Name, rhs.HField.DottedName, opStr, can, nil)
	case *ast.String:
		v, err := fvalue.ParseString(ftype1, rhs.Text)
		if err != nil {
			return typeErrorf("%q is not a valid value for the return type of %q", rhs.Text, lhs.Def.Name)
		}
		t.RHS = ast.NewFValue(v, rhs.Parenthesized())
		return nil
	case *ast.Unparsed:
		v, err := fvalue.ParseString(ftype1, rhs.Text)
		if err != nil {
			return typeErrorf("%q is not a valid value for the return type of %q", rhs.Text, lhs.Def.Name)
		}
		t.RHS = ast.NewFValue(v, rhs.Parenthesized())
		return nil
	case *ast.Function:
		if err := c.checkFunction(rhs); err != nil {
			return err
		}
		if !fvalue.Compatible(ftype1, rhs.Def.ReturnType) {
			return typeErrorf("%s and %s are not of compatible types", lhs.Def.Name, rhs.Def.Name)
		}
		return nil
	case *ast.Set:
		if t.Op != ast.In {
			return typeErrorf("a set may only appear on the right of 'in'")
		}
		return c.checkSet(ftype1, rhs, can)
	default:
		return typeErrorf("%s cannot appear on the right of '%s'", describe(t.RHS), opStr)
	}
}

// checkSet validates each Set element against lhsType, per spec §4.1.3:
// singletons check like ==, pairs check low>= then high<=, nested ranges
// are rejected.
func (c *checkerState) checkSet(lhsType fvalue.FieldType, set *ast.Set, can func(fvalue.FieldType) bool) error {
	if len(set.Elems) == 0 {
		return typeErrorf("a set must contain at least one element")
	}
	for i := range set.Elems {
		elem := &set.Elems[i]
		if _, isRange := elem.Low.(*ast.Range); isRange {
			return typeErrorf("a set element may not itself be a byte-range")
		}
		if err := c.coerceSetOperand(lhsType, &elem.Low); err != nil {
			return err
		}
		if elem.High != nil {
			if _, isRange := elem.High.(*ast.Range); isRange {
				return typeErrorf("a set element may not itself be a byte-range")
			}
			if err := c.coerceSetOperand(lhsType, &elem.High); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *checkerState) coerceSetOperand(lhsType fvalue.FieldType, n *ast.Node) error {
	switch v := (*n).(type) {
	case *ast.Field:
		if !fvalue.Compatible(lhsType, v.HField.Type) {
			return typeErrorf("%s is not compatible with the set's element type", v.HField.DottedName)
		}
		return nil
	case *ast.FValue:
		return nil
	case *ast.String, *ast.Unparsed, *ast.CharConst:
		val, err := fvalue.ParseString(lhsType, literalText(*n))
		if err != nil {
			return typeErrorf("%q is not a valid set element", literalText(*n))
		}
		*n = ast.NewFValue(val, (*n).Parenthesized())
		return nil
	default:
		return typeErrorf("%s is not a valid set element", describe(*n))
	}
}

// checkRangeSanity validates a Range node per spec §4.1.5: the wrapped
// entity must be a Field whose type can_slice, or a Function whose return
// type can_slice, or another Range (recursively).
func (c *checkerState) checkRangeSanity(r *ast.Range) error {
	switch child := r.Child.(type) {
	case *ast.Field:
		if !fvalue.CanSlice(child.HField.Type) {
			return typeErrorf("%s (type=%s) cannot be sliced", child.HField.DottedName, child.HField.Type)
		}
		return nil
	case *ast.Function:
		if err := c.checkFunction(child); err != nil {
			return err
		}
		if !fvalue.CanSlice(child.Def.ReturnType) {
			return typeErrorf("the function %q cannot be sliced", child.Def.Name)
		}
		return nil
	case *ast.Range:
		return c.checkRangeSanity(child)
	default:
		return typeErrorf("%s cannot be sliced", describe(r.Child))
	}
}

// checkFunction validates arity and per-parameter semantics (spec §4.1.4).
func (c *checkerState) checkFunction(fn *ast.Function) error {
	n := len(fn.Params)
	if n < fn.Def.MinArgs || (fn.Def.MaxArgs >= 0 && n > fn.Def.MaxArgs) {
		return typeErrorf("function %q takes between %d and %d arguments, got %d", fn.Def.Name, fn.Def.MinArgs, fn.Def.MaxArgs, n)
	}
	for i, param := range fn.Params {
		checked, err := c.checkParamEntity(param)
		if err != nil {
			return err
		}
		fn.Params[i] = checked
		if fn.Def.CheckParam != nil {
			if err := fn.Def.CheckParam(i, checked); err != nil {
				return typeErrorf("function %q: argument %d: %v", fn.Def.Name, i, err)
			}
		}
	}
	return nil
}

// checkParamEntity converts bare unparsed/charconst args to typed String
// values, recursing into nested Test/Field/Function/Range arguments
// unchanged (spec §4.1.4's check_param_entity).
func (c *checkerState) checkParamEntity(n ast.Node) (ast.Node, error) {
	switch v := n.(type) {
	case *ast.Unparsed:
		return ast.NewFValue(fvalue.New(fvalue.String, v.Text), v.Parenthesized()), nil
	case *ast.CharConst:
		return ast.NewFValue(fvalue.New(fvalue.String, v.Text), v.Parenthesized()), nil
	case *ast.String:
		return ast.NewFValue(fvalue.New(fvalue.String, v.Text), v.Parenthesized()), nil
	case *ast.Test:
		if err := c.checkTest(v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.Range:
		if err := c.checkRangeSanity(v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.Function:
		if err := c.checkFunction(v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return n, nil
	}
}
