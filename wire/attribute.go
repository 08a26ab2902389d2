/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package wire

// Attribute is update's target field (spec.md §4.3: "attribute = quota" /
// "attribute = ttl"). Values follow the order spec.md's own prose lists them
// in (quota, then ttl); the original's protocol headers were not part of the
// retrieved original_source/ set, so this ordering is this port's own choice
// rather than a literal carry-over -- recorded in DESIGN.md.
type Attribute uint8

const (
	AttributeQuota Attribute = iota
	AttributeTTL
)

func (a Attribute) String() string {
	switch a {
	case AttributeQuota:
		return "quota"
	case AttributeTTL:
		return "ttl"
	default:
		return "unknown"
	}
}

// Change is update's operation on the chosen Attribute (spec.md §4.3:
// "patch := store(value), increase := fetch_add(value), decrease := ...").
// Ordered the same way spec.md's prose lists them.
type Change uint8

const (
	ChangePatch Change = iota
	ChangeIncrease
	ChangeDecrease
)

func (c Change) String() string {
	switch c {
	case ChangePatch:
		return "patch"
	case ChangeIncrease:
		return "increase"
	case ChangeDecrease:
		return "decrease"
	default:
		return "unknown"
	}
}
